package server

import (
	"net/http"
	"testing"

	"github.com/cfischer83/inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyProfile(t *testing.T) {
	s, app := newTestServer(t)
	_, token := seedUser(t, s, "writer@example.com", models.RoleAuthor)

	resp := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Test User", body["display_name"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "writer@example.com", user["email"])
}

func TestUpdateMyProfile_OmittedFieldsUnchanged(t *testing.T) {
	s, app := newTestServer(t)
	_, token := seedUser(t, s, "writer@example.com", models.RoleAuthor)

	resp := doJSON(t, app, http.MethodPut, "/api/users/me", token, map[string]string{
		"bio": "Writes about compilers.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	user := decodeBody(t, resp)
	assert.Equal(t, "Writes about compilers.", user["bio"])
	assert.Equal(t, "Test", user["first_name"])
}

func TestAdminRoutes_GatedByRole(t *testing.T) {
	s, app := newTestServer(t)
	_, editorToken := seedUser(t, s, "editor@example.com", models.RoleEditor)
	_, adminToken := seedUser(t, s, "admin@example.com", models.RoleAdmin)

	for _, path := range []string{
		"/api/admin/users",
		"/api/admin/registry",
		"/api/admin/feature-flags",
	} {
		resp := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)

		resp = doJSON(t, app, http.MethodGet, path, editorToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)

		resp = doJSON(t, app, http.MethodGet, path, adminToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestAdminRoutes_SuperuserWithoutAdminRole(t *testing.T) {
	s, app := newTestServer(t)

	super := &models.User{
		Email:       "root@example.com",
		Password:    hashedTestPassword(t),
		Role:        models.RoleContributor,
		IsSuperuser: true,
	}
	require.NoError(t, s.db.Create(super).Error)
	token, err := s.generateToken(super)
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAssignRole(t *testing.T) {
	s, app := newTestServer(t)
	admin, adminToken := seedUser(t, s, "admin@example.com", models.RoleAdmin)
	target, _ := seedUser(t, s, "target@example.com", models.RoleContributor)

	t.Run("promotes a contributor", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut,
			"/api/admin/users/"+itoa(target.ID)+"/role", adminToken,
			map[string]string{"role": "editor"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var reloaded models.User
		require.NoError(t, s.db.First(&reloaded, target.ID).Error)
		assert.Equal(t, models.RoleEditor, reloaded.Role)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut,
			"/api/admin/users/"+itoa(target.ID)+"/role", adminToken,
			map[string]string{"role": "overlord"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("self-demotion rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut,
			"/api/admin/users/"+itoa(admin.ID)+"/role", adminToken,
			map[string]string{"role": "author"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed id rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut,
			"/api/admin/users/zero/role", adminToken,
			map[string]string{"role": "editor"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetRegistry_ListsAdministeredEntities(t *testing.T) {
	s, app := newTestServer(t)
	_, adminToken := seedUser(t, s, "admin@example.com", models.RoleAdmin)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/registry", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	entries, ok := body["registry"].([]any)
	require.True(t, ok)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		require.True(t, ok)
		names = append(names, entry["entity"].(string))
	}
	assert.ElementsMatch(t,
		[]string{"posts", "pages", "categories", "tags", "media", "users"}, names)
}

func TestGetFeatureFlags(t *testing.T) {
	s, app := newTestServer(t)
	_, adminToken := seedUser(t, s, "admin@example.com", models.RoleAdmin)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/feature-flags", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body, "flags")
}
