package database

import "github.com/cfischer83/inkwell/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Media{},
		&models.Post{},
		&models.Page{},
	}
}
