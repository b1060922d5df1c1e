// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// Role grades a user's permissions in the CMS.
type Role string

const (
	// RoleAdmin may do anything, including role management.
	RoleAdmin Role = "admin"
	// RoleEditor may publish and edit any content.
	RoleEditor Role = "editor"
	// RoleAuthor may edit their own content.
	RoleAuthor Role = "author"
	// RoleContributor may only submit drafts for review.
	RoleContributor Role = "contributor"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleAuthor, RoleContributor:
		return true
	}
	return false
}

// User represents an account in the CMS. Email is the login identity.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	FirstName   string    `gorm:"size:150" json:"first_name"`
	LastName    string    `gorm:"size:150" json:"last_name"`
	Role        Role      `gorm:"type:varchar(20);not null;default:'contributor'" json:"role"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"is_superuser"`
	Bio         string    `gorm:"type:text" json:"bio"`
	Avatar      string    `json:"avatar"`
	Website     string    `json:"website"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName returns "First Last" when both names are set, otherwise the
// local part of the email address.
func (u *User) DisplayName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}
