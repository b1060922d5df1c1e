// Package auth holds the role policy: pure permission predicates over a
// user's role, superuser flag, and content ownership. Keeping these as free
// functions decouples permission logic from the model types.
package auth

import "github.com/cfischer83/inkwell/internal/models"

// HasAdminRank reports whether the role/superuser pair carries admin rank.
func HasAdminRank(role models.Role, superuser bool) bool {
	return superuser || role == models.RoleAdmin
}

// HasEditorRank reports admin or editor rank.
func HasEditorRank(role models.Role, superuser bool) bool {
	return HasAdminRank(role, superuser) || role == models.RoleEditor
}

// HasAuthorRank reports admin, editor, or author rank.
func HasAuthorRank(role models.Role, superuser bool) bool {
	return HasEditorRank(role, superuser) || role == models.RoleAuthor
}

// HasContributorRank is true for every authenticated user.
func HasContributorRank(models.Role, bool) bool {
	return true
}

// IsAdmin reports whether u has admin rank. A nil user never does.
func IsAdmin(u *models.User) bool {
	return u != nil && HasAdminRank(u.Role, u.IsSuperuser)
}

// IsEditor reports whether u has at least editor rank.
func IsEditor(u *models.User) bool {
	return u != nil && HasEditorRank(u.Role, u.IsSuperuser)
}

// IsAuthor reports whether u has at least author rank.
func IsAuthor(u *models.User) bool {
	return u != nil && HasAuthorRank(u.Role, u.IsSuperuser)
}

// IsContributor reports whether u is an authenticated user.
func IsContributor(u *models.User) bool {
	return u != nil
}

// CanEdit reports whether u may edit a content item owned by authorID.
// Editors edit anything; authors edit only their own items.
func CanEdit(u *models.User, authorID *uint) bool {
	if IsEditor(u) {
		return true
	}
	if IsAuthor(u) && authorID != nil && u != nil && *authorID == u.ID {
		return true
	}
	return false
}

// CanPublish reports whether u may set the published or archived status.
func CanPublish(u *models.User) bool {
	return IsEditor(u)
}

// CanDelete reports whether u may delete content. Ownership does not grant
// deletion; only admins and editors may delete.
func CanDelete(u *models.User) bool {
	return IsAdmin(u) || IsEditor(u)
}
