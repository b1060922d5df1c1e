package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MediaType classifies an uploaded file by its extension.
type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeAudio    MediaType = "audio"
	MediaTypeDocument MediaType = "document"
	MediaTypeOther    MediaType = "other"
)

var mediaTypeByExt = map[string]MediaType{
	"jpg": MediaTypeImage, "jpeg": MediaTypeImage, "png": MediaTypeImage,
	"gif": MediaTypeImage, "webp": MediaTypeImage, "svg": MediaTypeImage,
	"mp4": MediaTypeVideo, "webm": MediaTypeVideo, "mov": MediaTypeVideo, "avi": MediaTypeVideo,
	"mp3": MediaTypeAudio, "wav": MediaTypeAudio, "ogg": MediaTypeAudio,
	"pdf": MediaTypeDocument, "doc": MediaTypeDocument, "docx": MediaTypeDocument,
	"xls": MediaTypeDocument, "xlsx": MediaTypeDocument,
	"ppt": MediaTypeDocument, "pptx": MediaTypeDocument,
}

// ClassifyFilename maps a filename to its MediaType by extension,
// case-insensitively. Unrecognized extensions classify as other.
func ClassifyFilename(name string) MediaType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if t, ok := mediaTypeByExt[ext]; ok {
		return t
	}
	return MediaTypeOther
}

// HumanSize renders a byte count with one decimal place in the first unit
// where the value drops below 1024.
func HumanSize(bytes int64) string {
	size := float64(bytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}

// Media is an uploaded file in the media library. Width and height are
// populated only for images, after dimension probing succeeds; probing
// failures leave both nil.
type Media struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FilePath     string    `gorm:"size:512;not null" json:"file_path"`
	Title        string    `gorm:"size:255" json:"title"`
	AltText      string    `gorm:"size:255" json:"alt_text"`
	Caption      string    `gorm:"type:text" json:"caption"`
	MediaType    MediaType `gorm:"type:varchar(20);not null;default:'other'" json:"media_type"`
	MimeType     string    `gorm:"size:100" json:"mime_type"`
	FileSize     int64     `gorm:"not null;default:0" json:"file_size"`
	Width        *int      `json:"width,omitempty"`
	Height       *int      `json:"height,omitempty"`
	UploadedByID *uint     `gorm:"index" json:"uploaded_by_id,omitempty"`
	UploadedBy   *User     `gorm:"foreignKey:UploadedByID;constraint:OnDelete:SET NULL" json:"uploaded_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Media) TableName() string {
	return "media"
}

// Filename returns the base name of the stored file.
func (m *Media) Filename() string {
	if m.FilePath == "" {
		return ""
	}
	return filepath.Base(m.FilePath)
}

// Extension returns the lowercase file extension without the dot.
func (m *Media) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(m.FilePath), "."))
}

// IsImage reports whether the asset is classified as an image.
func (m *Media) IsImage() bool {
	return m.MediaType == MediaTypeImage
}

// SizeDisplay returns the human-readable file size.
func (m *Media) SizeDisplay() string {
	return HumanSize(m.FileSize)
}
