// Package workflow implements the publication workflow: slug derivation,
// publish-timestamp stamping, role-gated status validation, and the
// visibility predicate that gates every read path.
package workflow

import (
	"time"

	"github.com/cfischer83/inkwell/internal/auth"
	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/slugify"
)

// PrepareSave applies the derived-field rules shared by every content type
// before a persist:
//   - a blank slug is derived from the title; an existing slug is never
//     re-derived
//   - the first transition into published stamps PublishedAt with now; an
//     existing timestamp is never touched, so a revert-then-republish keeps
//     the original value
func PrepareSave(c *models.ContentFields, now time.Time) {
	if c.Slug == "" {
		c.Slug = slugify.Slugify(c.Title)
	}
	if c.Status == models.StatusPublished && c.PublishedAt == nil {
		t := now
		c.PublishedAt = &t
	}
}

// AllowedStatuses returns the statuses the acting user may submit through an
// edit form. Editors and above get the full set; everyone else may only save
// drafts or submit for review.
func AllowedStatuses(u *models.User) []models.Status {
	if auth.CanPublish(u) {
		return []models.Status{
			models.StatusDraft, models.StatusPending,
			models.StatusPublished, models.StatusArchived,
		}
	}
	return []models.Status{models.StatusDraft, models.StatusPending}
}

// ValidateSubmittedStatus checks a client-supplied status against the acting
// user's allowed set. Client input is never trusted: a non-editor submitting
// published or archived is rejected here even if the UI restriction was
// bypassed. An empty status defaults to draft.
func ValidateSubmittedStatus(u *models.User, s models.Status) (models.Status, error) {
	if s == "" {
		return models.StatusDraft, nil
	}
	if !s.Valid() {
		return "", models.NewValidationError("Invalid status")
	}
	for _, allowed := range AllowedStatuses(u) {
		if s == allowed {
			return s, nil
		}
	}
	return "", models.NewPermissionDeniedError("Only editors can publish or archive content")
}

// CanSetPublishedAt reports whether the acting user may supply an explicit
// publish timestamp. For everyone below author rank the field is read-only.
func CanSetPublishedAt(u *models.User) bool {
	return auth.IsAuthor(u)
}

// Visible is the visibility predicate for a content item: published items
// are visible to everyone, and editors (and above) see every status.
func Visible(c *models.ContentFields, viewer *models.User) bool {
	if c.Status == models.StatusPublished {
		return true
	}
	return auth.IsEditor(viewer)
}
