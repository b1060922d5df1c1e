package service

import (
	"context"
	"testing"
	"time"

	"github.com/cfischer83/inkwell/internal/models"
	"github.com/cfischer83/inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPostService(postRepo *postRepoStub) *PostService {
	return NewPostService(postRepo, noopCategoryRepo(), noopTagRepo())
}

func TestCreatePost_RequiresAuthentication(t *testing.T) {
	t.Parallel()

	svc := newTestPostService(noopPostRepo())
	_, err := svc.CreatePost(context.Background(), nil, SavePostInput{Title: "Hello"})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestCreatePost_ContributorCannotPublish(t *testing.T) {
	t.Parallel()

	svc := newTestPostService(noopPostRepo())
	_, err := svc.CreatePost(context.Background(), contributorUser(), SavePostInput{
		Title:  "Sneaky Publish",
		Status: models.StatusPublished,
	})
	assertPermissionDenied(t, err)
}

func TestCreatePost_EmptyStatusDefaultsToDraft(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 100
		created = p
		return nil
	}
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return created, nil
	}

	svc := newTestPostService(repo)
	post, err := svc.CreatePost(context.Background(), contributorUser(), SavePostInput{Title: "My First Draft"})
	require.NoError(t, err)

	assert.Equal(t, models.StatusDraft, post.Status)
	assert.Equal(t, "my-first-draft", post.Slug)
	require.NotNil(t, post.AuthorID)
	assert.Equal(t, contributorUser().ID, *post.AuthorID)
	assert.Nil(t, post.PublishedAt)
}

func TestCreatePost_EditorPublishStampsPublishedAt(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 100
		created = p
		return nil
	}
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return created, nil
	}

	svc := newTestPostService(repo)
	post, err := svc.CreatePost(context.Background(), editorUser(), SavePostInput{
		Title:  "Launch Day",
		Status: models.StatusPublished,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPublished, post.Status)
	require.NotNil(t, post.PublishedAt)
	assert.WithinDuration(t, time.Now().UTC(), *post.PublishedAt, time.Second)
}

func TestCreatePost_TitleRequired(t *testing.T) {
	t.Parallel()

	svc := newTestPostService(noopPostRepo())
	_, err := svc.CreatePost(context.Background(), authorUser(), SavePostInput{})
	assertValidationError(t, err)
}

func TestCreatePost_TitleMustSlugify(t *testing.T) {
	t.Parallel()

	svc := newTestPostService(noopPostRepo())
	_, err := svc.CreatePost(context.Background(), authorUser(), SavePostInput{Title: "!!!"})
	assertValidationError(t, err)
}

func TestCreatePost_UnknownCategoryRejected(t *testing.T) {
	t.Parallel()

	categoryRepo := noopCategoryRepo()
	categoryRepo.getByIDsFn = func(_ context.Context, _ []uint) ([]models.Category, error) {
		return nil, nil
	}

	svc := NewPostService(noopPostRepo(), categoryRepo, noopTagRepo())
	_, err := svc.CreatePost(context.Background(), authorUser(), SavePostInput{
		Title:       "Tagged Up",
		CategoryIDs: []uint{99},
	})
	assertValidationError(t, err)
}

func TestUpdatePost_AuthorCanEditOwnOnly(t *testing.T) {
	t.Parallel()

	actor := authorUser()
	otherID := uint(77)

	repo := noopPostRepo()
	repo.getBySlugFn = func(_ context.Context, slug string) (*models.Post, error) {
		post := &models.Post{ID: 10}
		post.AuthorID = &otherID
		post.Slug = slug
		post.Status = models.StatusDraft
		return post, nil
	}

	svc := newTestPostService(repo)
	_, err := svc.UpdatePost(context.Background(), actor, "someone-elses-post", SavePostInput{Title: "Hijack"})
	assertPermissionDenied(t, err)

	own := actor.ID
	repo.getBySlugFn = func(_ context.Context, slug string) (*models.Post, error) {
		post := &models.Post{ID: 10}
		post.AuthorID = &own
		post.Slug = slug
		post.Status = models.StatusDraft
		return post, nil
	}
	_, err = svc.UpdatePost(context.Background(), actor, "my-own-post", SavePostInput{Title: "Better Title"})
	require.NoError(t, err)
}

func TestUpdatePost_SlugIsImmutable(t *testing.T) {
	t.Parallel()

	own := editorUser().ID
	repo := noopPostRepo()
	repo.getBySlugFn = func(_ context.Context, slug string) (*models.Post, error) {
		post := &models.Post{ID: 10}
		post.AuthorID = &own
		post.Slug = slug
		post.Title = "Original Title"
		post.Status = models.StatusDraft
		return post, nil
	}
	var updated *models.Post
	repo.updateFn = func(_ context.Context, p *models.Post) error {
		updated = p
		return nil
	}
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return updated, nil
	}

	svc := newTestPostService(repo)
	post, err := svc.UpdatePost(context.Background(), editorUser(), "original-title", SavePostInput{Title: "Renamed Entirely"})
	require.NoError(t, err)

	assert.Equal(t, "Renamed Entirely", post.Title)
	assert.Equal(t, "original-title", post.Slug)
}

func TestDeletePost_OwnershipDoesNotGrantDeletion(t *testing.T) {
	t.Parallel()

	actor := authorUser()
	own := actor.ID
	repo := noopPostRepo()
	repo.getBySlugFn = func(_ context.Context, slug string) (*models.Post, error) {
		post := &models.Post{ID: 10}
		post.AuthorID = &own
		post.Slug = slug
		return post, nil
	}

	svc := newTestPostService(repo)
	err := svc.DeletePost(context.Background(), actor, "my-own-post")
	assertPermissionDenied(t, err)

	deleted := false
	repo.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}
	require.NoError(t, svc.DeletePost(context.Background(), editorUser(), "my-own-post"))
	assert.True(t, deleted)
}

func TestGetPost_DraftHiddenFromStrangers(t *testing.T) {
	t.Parallel()

	ownerID := authorUser().ID
	repo := noopPostRepo()
	repo.getBySlugFn = func(_ context.Context, slug string) (*models.Post, error) {
		post := &models.Post{ID: 10}
		post.AuthorID = &ownerID
		post.Slug = slug
		post.Status = models.StatusDraft
		return post, nil
	}
	svc := newTestPostService(repo)

	_, err := svc.GetPost(context.Background(), nil, "secret-draft")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	_, err = svc.GetPost(context.Background(), contributorUser(), "secret-draft")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// Ownership does not widen the read path; the author's drafts are only
	// reachable through the my-posts listing.
	_, err = svc.GetPost(context.Background(), authorUser(), "secret-draft")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	post, err := svc.GetPost(context.Background(), editorUser(), "secret-draft")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, post.Status)
}

func TestListPosts_NonEditorsSeePublishedOnly(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	var gotOpts repository.ListPostsOptions
	repo.listFn = func(_ context.Context, opts repository.ListPostsOptions) ([]*models.Post, error) {
		gotOpts = opts
		return nil, nil
	}
	svc := newTestPostService(repo)

	_, _, err := svc.ListPosts(context.Background(), nil, ListPostsInput{Status: models.StatusDraft})
	require.NoError(t, err)
	assert.True(t, gotOpts.VisibleOnly)
	assert.Empty(t, gotOpts.Status)
	assert.Equal(t, DefaultPostPageSize, gotOpts.Limit)

	_, _, err = svc.ListPosts(context.Background(), editorUser(), ListPostsInput{Status: models.StatusDraft})
	require.NoError(t, err)
	assert.False(t, gotOpts.VisibleOnly)
	assert.Equal(t, models.StatusDraft, gotOpts.Status)
}

func TestListMyPosts_ScopedToActor(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	var gotOpts repository.ListPostsOptions
	repo.listFn = func(_ context.Context, opts repository.ListPostsOptions) ([]*models.Post, error) {
		gotOpts = opts
		return nil, nil
	}
	svc := newTestPostService(repo)

	_, _, err := svc.ListMyPosts(context.Background(), nil, 0, 0)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)

	_, _, err = svc.ListMyPosts(context.Background(), contributorUser(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, contributorUser().ID, gotOpts.AuthorID)
	assert.False(t, gotOpts.VisibleOnly)
}

func TestRelatedPosts_FollowVisibility(t *testing.T) {
	t.Parallel()

	ownerID := authorUser().ID
	repo := noopPostRepo()
	repo.getBySlugFn = func(_ context.Context, slug string) (*models.Post, error) {
		post := &models.Post{ID: 10}
		post.AuthorID = &ownerID
		post.Slug = slug
		post.Status = models.StatusDraft
		return post, nil
	}
	svc := newTestPostService(repo)

	_, err := svc.RelatedPosts(context.Background(), nil, "secret-draft")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestSearchPosts_EmptyQueryShortCircuits(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	called := false
	repo.searchFn = func(_ context.Context, _ string, _ int) ([]*models.Post, error) {
		called = true
		return nil, nil
	}
	svc := newTestPostService(repo)

	results, err := svc.SearchPosts(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.False(t, called)
}
