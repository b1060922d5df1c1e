package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/cfischer83/inkwell/internal/config"
	"github.com/cfischer83/inkwell/internal/database"
	"github.com/cfischer83/inkwell/internal/featureflags"
	"github.com/cfischer83/inkwell/internal/middleware"
	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/repository"
	"github.com/cfischer83/inkwell/internal/service"
	"github.com/cfischer83/inkwell/internal/storage"
	"github.com/cfischer83/inkwell/internal/workflow"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "CorrectHorse9!batt"

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// newTestServer wires a Server against an in-memory database and a miniredis
// instance, with all routes registered. The heavy HTTP middleware stack
// (CORS, helmet, global limiter) is deliberately not installed; handler
// behavior is what these tests exercise.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		JWTSecret:            "handler-test-secret",
		MediaUploadDir:       t.TempDir(),
		MediaMaxUploadSizeMB: 1,
	}
	middleware.InitMiddleware(cfg)
	middleware.UseRevocationList(rdb)

	s := &Server{
		config:       cfg,
		db:           db,
		redis:        rdb,
		userRepo:     repository.NewUserRepository(db),
		postRepo:     repository.NewPostRepository(db),
		pageRepo:     repository.NewPageRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		tagRepo:      repository.NewTagRepository(db),
		mediaRepo:    repository.NewMediaRepository(db),
		featureFlags: featureflags.NewManager("previews=on"),
		registry:     NewDisplayRegistry(),
	}

	store := storage.NewLocalStore(cfg.MediaUploadDir)
	s.postService = service.NewPostService(s.postRepo, s.categoryRepo, s.tagRepo)
	s.pageService = service.NewPageService(s.pageRepo)
	s.taxonomyService = service.NewTaxonomyService(s.categoryRepo, s.tagRepo, s.postRepo)
	s.mediaService = service.NewMediaService(s.mediaRepo, store, cfg.MediaMaxUploadSizeMB)
	s.userService = service.NewUserService(s.userRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

var testPasswordHash []byte

func hashedTestPassword(t *testing.T) string {
	t.Helper()
	if testPasswordHash == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
		require.NoError(t, err)
		testPasswordHash = hash
	}
	return string(testPasswordHash)
}

// seedUser inserts a user directly and returns it alongside a signed token.
func seedUser(t *testing.T, s *Server, email string, role models.Role) (*models.User, string) {
	t.Helper()
	user := &models.User{
		Email:     email,
		Password:  hashedTestPassword(t),
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	require.NoError(t, s.db.Create(user).Error)

	token, err := s.generateToken(user)
	require.NoError(t, err)
	return user, token
}

func seedPost(t *testing.T, s *Server, author *models.User, title, slug string, status models.Status) *models.Post {
	t.Helper()
	post := &models.Post{
		ContentFields: models.ContentFields{
			Title:    title,
			Slug:     slug,
			Body:     "Body of " + title,
			AuthorID: &author.ID,
			Status:   status,
		},
	}
	workflow.PrepareSave(&post.ContentFields, time.Now().UTC())
	require.NoError(t, s.db.Create(post).Error)
	return post
}

func seedPage(t *testing.T, s *Server, author *models.User, title, slug string, status models.Status, showInMenu bool, menuOrder uint) *models.Page {
	t.Helper()
	page := &models.Page{
		ContentFields: models.ContentFields{
			Title:    title,
			Slug:     slug,
			Body:     "Body of " + title,
			AuthorID: &author.ID,
			Status:   status,
		},
		Template:   models.PageTemplateDefault,
		ShowInMenu: showInMenu,
		MenuOrder:  menuOrder,
	}
	workflow.PrepareSave(&page.ContentFields, time.Now().UTC())
	require.NoError(t, s.db.Create(page).Error)
	return page
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeBody unmarshals a response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
