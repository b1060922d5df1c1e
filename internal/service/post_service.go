// Package service implements the business logic layer between HTTP handlers
// and repositories.
package service

import (
	"context"
	"time"

	"github.com/cfischer83/inkwell/internal/auth"
	"github.com/cfischer83/inkwell/internal/cache"
	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/observability"
	"github.com/cfischer83/inkwell/internal/repository"
	"github.com/cfischer83/inkwell/internal/workflow"
)

const (
	DefaultPostPageSize = 10
	HomePostCount       = 6
	RelatedPostCount    = 3
	SearchPostLimit     = 50
)

// PostService coordinates the post lifecycle: drafting, review, publication
// and the visibility-gated read paths.
type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
}

// SavePostInput carries the writable post fields submitted by a client.
type SavePostInput struct {
	Title           string
	Excerpt         string
	Body            string
	Status          models.Status
	MetaTitle       string
	MetaDescription string
	FeaturedMediaID *uint
	PublishedAt     *time.Time
	AllowComments   *bool
	CategoryIDs     []uint
	TagIDs          []uint
}

// ListPostsInput narrows a post listing request.
type ListPostsInput struct {
	CategorySlug string
	TagSlug      string
	Status       models.Status
	Limit        int
	Offset       int
}

func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository, tagRepo repository.TagRepository) *PostService {
	return &PostService{postRepo: postRepo, categoryRepo: categoryRepo, tagRepo: tagRepo}
}

func (s *PostService) resolveAssociations(ctx context.Context, post *models.Post, in SavePostInput) error {
	categories, err := s.categoryRepo.GetByIDs(ctx, in.CategoryIDs)
	if err != nil {
		return err
	}
	if len(categories) != len(in.CategoryIDs) {
		return models.NewValidationError("One or more categories do not exist")
	}
	tags, err := s.tagRepo.GetByIDs(ctx, in.TagIDs)
	if err != nil {
		return err
	}
	if len(tags) != len(in.TagIDs) {
		return models.NewValidationError("One or more tags do not exist")
	}
	post.Categories = categories
	post.Tags = tags
	return nil
}

func (s *PostService) applyInput(actor *models.User, post *models.Post, in SavePostInput) error {
	if in.Title == "" {
		return models.NewValidationError("Title is required")
	}
	status, err := workflow.ValidateSubmittedStatus(actor, in.Status)
	if err != nil {
		return err
	}

	post.Title = in.Title
	post.Excerpt = in.Excerpt
	post.Body = in.Body
	post.Status = status
	post.MetaTitle = in.MetaTitle
	post.MetaDescription = in.MetaDescription
	post.FeaturedMediaID = in.FeaturedMediaID
	if in.AllowComments != nil {
		post.AllowComments = *in.AllowComments
	}
	if in.PublishedAt != nil && workflow.CanSetPublishedAt(actor) && post.PublishedAt == nil {
		post.PublishedAt = in.PublishedAt
	}
	return nil
}

// CreatePost creates a post authored by the acting user. Any authenticated
// user may draft; publishing rights are enforced on the submitted status.
func (s *PostService) CreatePost(ctx context.Context, actor *models.User, in SavePostInput) (*models.Post, error) {
	if actor == nil {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	post := &models.Post{AllowComments: true}
	post.AuthorID = &actor.ID
	if err := s.applyInput(actor, post, in); err != nil {
		return nil, err
	}
	if err := s.resolveAssociations(ctx, post, in); err != nil {
		return nil, err
	}

	workflow.PrepareSave(&post.ContentFields, time.Now().UTC())
	if post.Slug == "" {
		return nil, models.NewValidationError("Title must contain at least one alphanumeric character")
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.ContentTransitions.WithLabelValues("post", string(post.Status)).Inc()
	cache.InvalidatePost(ctx, post.Slug)
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost edits an existing post. Editors may edit anything; authors only
// their own posts. The slug is derived once and never changes on edit.
func (s *PostService) UpdatePost(ctx context.Context, actor *models.User, slug string, in SavePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !auth.CanEdit(actor, post.AuthorID) {
		return nil, models.NewPermissionDeniedError("You cannot edit this post")
	}

	previousStatus := post.Status
	if err := s.applyInput(actor, post, in); err != nil {
		return nil, err
	}
	if err := s.resolveAssociations(ctx, post, in); err != nil {
		return nil, err
	}

	workflow.PrepareSave(&post.ContentFields, time.Now().UTC())
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	if post.Status != previousStatus {
		observability.ContentTransitions.WithLabelValues("post", string(post.Status)).Inc()
	}
	cache.InvalidatePost(ctx, post.Slug)
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post. Ownership never grants deletion; only editors
// and admins may delete.
func (s *PostService) DeletePost(ctx context.Context, actor *models.User, slug string) error {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if !auth.CanDelete(actor) {
		return models.NewPermissionDeniedError("You cannot delete this post")
	}
	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.Slug)
	return nil
}

// GetPost returns a single post if the viewer may see it. Unpublished posts
// are visible to editors only; authors reach their own drafts via MyPosts.
func (s *PostService) GetPost(ctx context.Context, viewer *models.User, slug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !workflow.Visible(&post.ContentFields, viewer) {
		return nil, models.NewNotFoundError("Post", slug)
	}
	return post, nil
}

// ListPosts returns the public post listing. Viewers below editor rank only
// see published posts; the status filter is honored for editors.
func (s *PostService) ListPosts(ctx context.Context, viewer *models.User, in ListPostsInput) ([]*models.Post, int64, error) {
	if in.Limit <= 0 {
		in.Limit = DefaultPostPageSize
	}
	opts := repository.ListPostsOptions{
		CategorySlug: in.CategorySlug,
		TagSlug:      in.TagSlug,
		Limit:        in.Limit,
		Offset:       in.Offset,
	}
	if auth.IsEditor(viewer) {
		opts.Status = in.Status
	} else {
		opts.VisibleOnly = true
	}

	posts, err := s.postRepo.List(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.postRepo.Count(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListMyPosts returns the acting user's own posts in every status.
func (s *PostService) ListMyPosts(ctx context.Context, actor *models.User, limit, offset int) ([]*models.Post, int64, error) {
	if actor == nil {
		return nil, 0, models.NewUnauthorizedError("Authentication required")
	}
	if limit <= 0 {
		limit = DefaultPostPageSize
	}
	opts := repository.ListPostsOptions{AuthorID: actor.ID, Limit: limit, Offset: offset}
	posts, err := s.postRepo.List(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.postRepo.Count(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// SearchPosts searches published posts by title, excerpt and body.
func (s *PostService) SearchPosts(ctx context.Context, query string) ([]*models.Post, error) {
	if query == "" {
		return nil, nil
	}
	return s.postRepo.Search(ctx, query, SearchPostLimit)
}

// RelatedPosts returns up to three published posts sharing a category with
// the given post. Only published posts have related posts.
func (s *PostService) RelatedPosts(ctx context.Context, viewer *models.User, slug string) ([]*models.Post, error) {
	post, err := s.GetPost(ctx, viewer, slug)
	if err != nil {
		return nil, err
	}

	var related []*models.Post
	err = cache.Aside(ctx, cache.RelatedKey(slug), &related, cache.RelatedTTL, func() error {
		var fetchErr error
		related, fetchErr = s.postRepo.Related(ctx, post, RelatedPostCount)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return related, nil
}

// LatestPublished returns the newest published posts for the home view.
func (s *PostService) LatestPublished(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = HomePostCount
	}
	return s.postRepo.List(ctx, repository.ListPostsOptions{VisibleOnly: true, Limit: limit})
}
