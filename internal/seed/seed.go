package seed

import (
	"fmt"
	"log"

	"github.com/cfischer83/inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	Factory     SeedOptions
}

var categoryNames = []string{
	"Technology", "Programming", "Design", "Business", "Science",
	"Culture", "Travel", "Food", "Reviews", "Opinion",
}

var tagNames = []string{
	"go", "databases", "frontend", "backend", "devops", "cloud",
	"open-source", "tutorials", "performance", "security", "testing",
	"interviews", "releases", "deep-dive",
}

var menuPageTitles = []string{"About", "Contact", "Privacy Policy", "Archive"}

// Seed populates the database with demo content: a user per role, the
// standard taxonomy, posts in every workflow state, menu pages and a few
// media library records.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway")
		}
	}

	f := NewFactory(db, opts.Factory)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	categories, err := createCategories(f)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	tags, err := createTags(f)
	if err != nil {
		return fmt.Errorf("failed to create tags: %w", err)
	}
	log.Printf("created %d categories and %d tags", len(categories), len(tags))

	if err := createPosts(f, users, categories, tags, opts.NumPosts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", opts.NumPosts)

	if err := createPages(f, users); err != nil {
		return fmt.Errorf("failed to create pages: %w", err)
	}

	if err := createMedia(f, users); err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}

	log.Println("Database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE post_categories, post_tags, posts, pages, media, categories, tags, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

// createUsers guarantees one account per role before filling the remainder
// with random authors and contributors.
func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	fixed := []struct {
		email string
		role  models.Role
	}{
		{"admin@inkwell.local", models.RoleAdmin},
		{"editor@inkwell.local", models.RoleEditor},
		{"author@inkwell.local", models.RoleAuthor},
		{"contributor@inkwell.local", models.RoleContributor},
	}
	for _, fx := range fixed {
		email := fx.email
		user, err := f.CreateUser(fx.role, func(u *models.User) {
			u.Email = email
		})
		if err != nil {
			// Likely re-seeding over existing fixed accounts; skip.
			continue
		}
		users = append(users, user)
	}

	roles := []models.Role{models.RoleAuthor, models.RoleAuthor, models.RoleContributor}
	for i := len(users); i < count; i++ {
		user, err := f.CreateUser(roles[i%len(roles)])
		if err != nil {
			log.Printf("failed to create user: %v", err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func createCategories(f *Factory) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category, err := f.CreateCategory(name, nil)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, nil
}

func createTags(f *Factory) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := f.CreateTag(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// statusMix weights the workflow states so most seeded posts are live.
var statusMix = []models.Status{
	models.StatusPublished, models.StatusPublished, models.StatusPublished,
	models.StatusPublished, models.StatusDraft, models.StatusPending,
	models.StatusArchived,
}

func createPosts(f *Factory, users []*models.User, categories []models.Category, tags []models.Tag, count int) error {
	if len(users) == 0 {
		return nil
	}
	for i := 0; i < count; i++ {
		author := users[f.rng.Intn(len(users))]
		status := statusMix[i%len(statusMix)]

		var postCategories []models.Category
		if len(categories) > 0 {
			postCategories = []models.Category{categories[f.rng.Intn(len(categories))]}
		}
		var postTags []models.Tag
		for _, tag := range tags {
			if f.rng.Intn(len(tags)) < 2 {
				postTags = append(postTags, tag)
			}
		}

		if _, err := f.CreatePost(author, status, postCategories, postTags); err != nil {
			return err
		}
		if i > 0 && i%100 == 0 {
			log.Printf("created %d posts...", i)
		}
	}
	return nil
}

func createPages(f *Factory, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}
	author := users[0]
	for i, title := range menuPageTitles {
		if _, err := f.CreatePage(author, title, models.StatusPublished, true, uint(i+1)); err != nil {
			return err
		}
	}
	// One unpublished page so the review queue is never empty.
	_, err := f.CreatePage(author, "Upcoming Events", models.StatusDraft, false, 0)
	return err
}

func createMedia(f *Factory, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}
	for i := 0; i < 8; i++ {
		if _, err := f.CreateMedia(users[f.rng.Intn(len(users))]); err != nil {
			return err
		}
	}
	return nil
}
