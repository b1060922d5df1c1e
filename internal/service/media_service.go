package service

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/cfischer83/inkwell/internal/auth"
	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/observability"
	"github.com/cfischer83/inkwell/internal/repository"
	"github.com/cfischer83/inkwell/internal/storage"
)

const DefaultMediaMaxUploadSizeMB = 25

// MediaService manages the media library: uploads, metadata edits and
// deletion, with image dimensions probed in the background after save.
type MediaService struct {
	mediaRepo repository.MediaRepository
	store     *storage.LocalStore

	maxUploadSizeBytes int64
	probeLog           *observability.RepoLogger

	// probeHook, when set, runs after each background probe finishes.
	probeHook func()
}

// UploadMediaInput carries an upload request.
type UploadMediaInput struct {
	Filename string
	Content  []byte
	Title    string
	AltText  string
	Caption  string
}

// UpdateMediaInput carries the editable metadata of an existing asset.
type UpdateMediaInput struct {
	Title   string
	AltText string
	Caption string
}

// ListMediaInput narrows a media listing.
type ListMediaInput struct {
	MediaType   models.MediaType
	TitleSearch string
	Limit       int
	Offset      int
}

func NewMediaService(mediaRepo repository.MediaRepository, store *storage.LocalStore, maxUploadSizeMB int) *MediaService {
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = DefaultMediaMaxUploadSizeMB
	}
	return &MediaService{
		mediaRepo:          mediaRepo,
		store:              store,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
		probeLog:           observability.NewRepoLogger("media"),
	}
}

// Upload stores the file, records it, and kicks off a background probe for
// image dimensions. Probe failures never fail the upload.
func (s *MediaService) Upload(ctx context.Context, actor *models.User, in UploadMediaInput) (*models.Media, error) {
	if actor == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if in.Filename == "" || len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	rel, err := s.store.Save(in.Filename, in.Content)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	mediaType := models.ClassifyFilename(in.Filename)
	title := in.Title
	if title == "" {
		// Filename stem without the extension.
		base := filepath.Base(in.Filename)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	media := &models.Media{
		FilePath:     rel,
		Title:        title,
		AltText:      in.AltText,
		Caption:      in.Caption,
		MediaType:    mediaType,
		MimeType:     mime.TypeByExtension(filepath.Ext(in.Filename)),
		FileSize:     int64(len(in.Content)),
		UploadedByID: &actor.ID,
	}
	if err := s.mediaRepo.Create(ctx, media); err != nil {
		if cleanupErr := s.store.Delete(rel); cleanupErr != nil {
			s.probeLog.LogIgnored(ctx, "cleanup", cleanupErr)
		}
		return nil, err
	}

	observability.MediaUploads.WithLabelValues(string(mediaType)).Inc()

	if mediaType == models.MediaTypeImage {
		go s.probeImage(context.WithoutCancel(ctx), media.ID, rel, in.Content)
	}
	return media, nil
}

// probeImage backfills width/height and renders a thumbnail. Every failure
// here is swallowed: the asset stays usable without dimensions.
func (s *MediaService) probeImage(ctx context.Context, id uint, rel string, content []byte) {
	if s.probeHook != nil {
		defer s.probeHook()
	}

	width, height, err := storage.ProbeDimensions(content)
	if err != nil {
		observability.MediaProbeFailures.Inc()
		s.probeLog.LogIgnored(ctx, "probe_dimensions", err)
		return
	}
	if err := s.mediaRepo.UpdateDimensions(ctx, id, width, height); err != nil {
		s.probeLog.LogIgnored(ctx, "update_dimensions", err)
	}
	if _, err := s.store.WriteThumbnail(rel, content); err != nil {
		s.probeLog.LogIgnored(ctx, "write_thumbnail", err)
	}
}

// Get returns a single media record.
func (s *MediaService) Get(ctx context.Context, id uint) (*models.Media, error) {
	return s.mediaRepo.GetByID(ctx, id)
}

// List returns media records, optionally filtered by type and title search.
func (s *MediaService) List(ctx context.Context, in ListMediaInput) ([]*models.Media, int64, error) {
	if in.MediaType != "" {
		switch in.MediaType {
		case models.MediaTypeImage, models.MediaTypeVideo, models.MediaTypeAudio, models.MediaTypeDocument, models.MediaTypeOther:
		default:
			return nil, 0, models.NewValidationError("Unknown media type")
		}
	}
	if in.Limit <= 0 {
		in.Limit = DefaultPostPageSize
	}
	opts := repository.ListMediaOptions{
		MediaType:   in.MediaType,
		TitleSearch: in.TitleSearch,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	items, err := s.mediaRepo.List(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.mediaRepo.Count(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update edits title, alt text and caption. Uploaders may edit their own
// assets; editors may edit any.
func (s *MediaService) Update(ctx context.Context, actor *models.User, id uint, in UpdateMediaInput) (*models.Media, error) {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageMedia(actor, media) {
		return nil, models.NewPermissionDeniedError("You cannot edit this media item")
	}

	media.Title = in.Title
	media.AltText = in.AltText
	media.Caption = in.Caption
	if err := s.mediaRepo.Update(ctx, media); err != nil {
		return nil, err
	}
	return media, nil
}

// Delete removes the record, detaches featured-media references and deletes
// the file from disk.
func (s *MediaService) Delete(ctx context.Context, actor *models.User, id uint) error {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManageMedia(actor, media) {
		return models.NewPermissionDeniedError("You cannot delete this media item")
	}
	if err := s.mediaRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(media.FilePath); err != nil {
		// The record is gone; a stale file is a cleanup concern, not a failure.
		s.probeLog.LogIgnored(ctx, "delete_file", err)
	}
	return nil
}

// ResolveFile returns the absolute on-disk path for serving a stored asset.
func (s *MediaService) ResolveFile(ctx context.Context, id uint) (*models.Media, string, error) {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	abs, err := s.store.Open(media.FilePath)
	if err != nil {
		return nil, "", models.NewNotFoundError("Media file", media.FilePath)
	}
	return media, abs, nil
}

func canManageMedia(actor *models.User, media *models.Media) bool {
	if actor == nil {
		return false
	}
	if auth.IsEditor(actor) {
		return true
	}
	return media.UploadedByID != nil && *media.UploadedByID == actor.ID
}
