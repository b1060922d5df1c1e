// Package storage persists uploaded media files on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/slugify"

	"github.com/google/uuid"
)

// ErrOutsideBase is returned when a relative path escapes the store's base directory.
var ErrOutsideBase = errors.New("storage: path escapes base directory")

// LocalStore writes media files under a base directory, grouped into a
// folder per media type. Paths handed out are relative to the base so the
// database stays portable across deployments.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	return &LocalStore{baseDir: baseDir}
}

// BaseDir returns the absolute root the store writes under.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

func folderFor(t models.MediaType) string {
	switch t {
	case models.MediaTypeImage:
		return "images"
	case models.MediaTypeVideo:
		return "videos"
	case models.MediaTypeAudio:
		return "audio"
	case models.MediaTypeDocument:
		return "documents"
	default:
		return "files"
	}
}

// BuildPath derives the relative storage path for an upload: the media-type
// folder plus a slugified file stem. The original extension is kept verbatim
// in lowercase.
func (s *LocalStore) BuildPath(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	slug := slugify.Slugify(stem)
	if slug == "" {
		slug = "file"
	}
	folder := folderFor(models.ClassifyFilename(filename))
	return filepath.ToSlash(filepath.Join(folder, slug+ext))
}

// Save writes content at the path derived from filename, appending a short
// unique suffix when the derived name is already taken. It returns the
// relative path actually written.
func (s *LocalStore) Save(filename string, content []byte) (string, error) {
	rel := s.BuildPath(filename)
	abs, err := s.resolve(rel)
	if err != nil {
		return "", err
	}

	if _, statErr := os.Stat(abs); statErr == nil {
		ext := filepath.Ext(rel)
		stem := strings.TrimSuffix(rel, ext)
		rel = fmt.Sprintf("%s-%s%s", stem, uuid.NewString()[:8], ext)
		if abs, err = s.resolve(rel); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, content, 0o600); err != nil {
		return "", err
	}
	return rel, nil
}

// Open returns the absolute on-disk path for a stored relative path,
// verifying it stays inside the base directory.
func (s *LocalStore) Open(rel string) (string, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// Delete removes a stored file. Missing files are not an error so that
// deleting a record whose file is already gone still succeeds.
func (s *LocalStore) Delete(rel string) error {
	abs, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	// Thumbnails are best-effort artifacts, remove alongside the original.
	_ = os.Remove(thumbnailAbsPath(abs))
	return nil
}

func (s *LocalStore) resolve(rel string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", ErrOutsideBase
	}
	return filepath.Join(s.baseDir, cleaned), nil
}
