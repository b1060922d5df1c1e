package models

import "time"

// Status is the lifecycle state of a publishable content item.
type Status string

const (
	// StatusDraft is the initial state of new content.
	StatusDraft Status = "draft"
	// StatusPending marks content submitted for editorial review.
	StatusPending Status = "pending"
	// StatusPublished makes content publicly visible.
	StatusPublished Status = "published"
	// StatusArchived hides content without deleting it.
	StatusArchived Status = "archived"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// ContentFields is the field set shared by every publishable content type.
// Post and Page embed it rather than subclassing; type-specific fields live
// on the embedding struct.
type ContentFields struct {
	Title           string     `gorm:"size:255;not null" json:"title"`
	Slug            string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Excerpt         string     `gorm:"type:text" json:"excerpt"`
	Body            string     `gorm:"type:text" json:"body"`
	FeaturedMediaID *uint      `gorm:"index" json:"featured_media_id,omitempty"`
	AuthorID        *uint      `gorm:"index" json:"author_id,omitempty"`
	Status          Status     `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	MetaTitle       string     `gorm:"size:70" json:"meta_title"`
	MetaDescription string     `gorm:"size:160" json:"meta_description"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at"`
}

// SEOTitle returns the meta title override or falls back to the title.
func (c *ContentFields) SEOTitle() string {
	if c.MetaTitle != "" {
		return c.MetaTitle
	}
	return c.Title
}

// SEODescription returns the meta description for listings and SEO tags.
// An empty excerpt short-circuits the whole chain to "", even when a meta
// description override is set. That matches the behavior the rest of the
// system was built against; callers rely on it.
func (c *ContentFields) SEODescription() string {
	if c.Excerpt == "" {
		return ""
	}
	if c.MetaDescription != "" {
		return c.MetaDescription
	}
	runes := []rune(c.Excerpt)
	if len(runes) > 160 {
		runes = runes[:160]
	}
	return string(runes)
}

// IsPublished reports whether the item is in the published state.
func (c *ContentFields) IsPublished() bool {
	return c.Status == StatusPublished
}

// Post is a blog entry classified by categories and tags.
type Post struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	ContentFields `gorm:"embedded"`
	Author        *User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	FeaturedMedia *Media     `gorm:"foreignKey:FeaturedMediaID;constraint:OnDelete:SET NULL" json:"featured_media,omitempty"`
	Categories    []Category `gorm:"many2many:post_categories;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	Tags          []Tag      `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	AllowComments bool       `gorm:"not null;default:true" json:"allow_comments"`
}

// Page templates selectable in the page editor.
const (
	PageTemplateDefault      = "default"
	PageTemplateFullWidth    = "full-width"
	PageTemplateSidebarLeft  = "sidebar-left"
	PageTemplateSidebarRight = "sidebar-right"
	PageTemplateLanding      = "landing"
)

// ValidPageTemplate reports whether t is a known page template.
func ValidPageTemplate(t string) bool {
	switch t {
	case PageTemplateDefault, PageTemplateFullWidth, PageTemplateSidebarLeft,
		PageTemplateSidebarRight, PageTemplateLanding:
		return true
	}
	return false
}

// Page is a static page, optionally nested under a parent page and surfaced
// in the site navigation menu.
type Page struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	ContentFields `gorm:"embedded"`
	Author        *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	FeaturedMedia *Media `gorm:"foreignKey:FeaturedMediaID;constraint:OnDelete:SET NULL" json:"featured_media,omitempty"`
	Template      string `gorm:"size:50;not null;default:'default'" json:"template"`
	ParentID      *uint  `gorm:"index" json:"parent_id,omitempty"`
	Parent        *Page  `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL" json:"parent,omitempty"`
	ShowInMenu    bool   `gorm:"not null;default:false" json:"show_in_menu"`
	MenuOrder     uint   `gorm:"not null;default:0" json:"menu_order"`
}

// TemplateName returns the template file name for the page's template choice.
func (p *Page) TemplateName() string {
	return "pages/" + p.Template + ".html"
}
