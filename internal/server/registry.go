package server

import (
	"github.com/gofiber/fiber/v2"
)

// DisplayConfig describes how an entity is presented in administrative
// clients: which columns to list, which fields are searchable, and the
// default ordering.
type DisplayConfig struct {
	Entity       string   `json:"entity"`
	ListDisplay  []string `json:"list_display"`
	SearchFields []string `json:"search_fields"`
	Ordering     []string `json:"ordering"`
	Filters      []string `json:"filters,omitempty"`
}

// DisplayRegistry is the entity→display-config mapping. It is built once at
// startup and passed by reference; nothing mutates it afterwards.
type DisplayRegistry struct {
	entries []DisplayConfig
}

// NewDisplayRegistry builds the registry for every administered entity.
func NewDisplayRegistry() *DisplayRegistry {
	return &DisplayRegistry{entries: []DisplayConfig{
		{
			Entity:       "posts",
			ListDisplay:  []string{"title", "slug", "status", "author_id", "published_at"},
			SearchFields: []string{"title", "excerpt", "body"},
			Ordering:     []string{"-published_at", "-created_at"},
			Filters:      []string{"status", "category", "tag"},
		},
		{
			Entity:       "pages",
			ListDisplay:  []string{"title", "slug", "status", "template", "show_in_menu", "menu_order"},
			SearchFields: []string{"title", "excerpt", "body"},
			Ordering:     []string{"menu_order", "title"},
			Filters:      []string{"status", "template"},
		},
		{
			Entity:       "categories",
			ListDisplay:  []string{"name", "slug", "parent_id"},
			SearchFields: []string{"name", "description"},
			Ordering:     []string{"name"},
		},
		{
			Entity:       "tags",
			ListDisplay:  []string{"name", "slug"},
			SearchFields: []string{"name"},
			Ordering:     []string{"name"},
		},
		{
			Entity:       "media",
			ListDisplay:  []string{"title", "file_path", "media_type", "file_size", "uploaded_by_id"},
			SearchFields: []string{"title", "alt_text"},
			Ordering:     []string{"-created_at"},
			Filters:      []string{"media_type"},
		},
		{
			Entity:       "users",
			ListDisplay:  []string{"email", "first_name", "last_name", "role", "is_superuser"},
			SearchFields: []string{"email", "first_name", "last_name"},
			Ordering:     []string{"email"},
			Filters:      []string{"role"},
		},
	}}
}

// Entries returns the configured display entries in registration order.
func (r *DisplayRegistry) Entries() []DisplayConfig {
	return r.entries
}

// Lookup returns the display config for an entity name.
func (r *DisplayRegistry) Lookup(entity string) (DisplayConfig, bool) {
	for _, e := range r.entries {
		if e.Entity == entity {
			return e, true
		}
	}
	return DisplayConfig{}, false
}

// GetRegistry handles GET /api/admin/registry
func (s *Server) GetRegistry(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"registry": s.registry.Entries()})
}
