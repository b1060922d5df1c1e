package server

import (
	"net/http"
	"testing"

	"github.com/cfischer83/inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	s, app := newTestServer(t)
	_, authorToken := seedUser(t, s, "author@example.com", models.RoleAuthor)
	_, contribToken := seedUser(t, s, "contrib@example.com", models.RoleContributor)

	t.Run("requires authentication", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/", "", map[string]string{
			"title": "Anonymous Post",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("author creates a draft", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/", authorToken, map[string]string{
			"title": "Field Notes From August",
			"body":  "Long-form body.",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "field-notes-from-august", body["slug"])
		assert.Equal(t, "draft", body["status"])
		assert.Nil(t, body["published_at"])
	})

	t.Run("contributor cannot publish", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/", contribToken, map[string]string{
			"title":  "Sneaky Publish",
			"status": "published",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("title is required", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/", authorToken, map[string]string{
			"body": "No title here.",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/posts/", authorToken, map[string]string{
			"title": "Field Notes From August",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestGetPost_Visibility(t *testing.T) {
	s, app := newTestServer(t)
	author, authorToken := seedUser(t, s, "author@example.com", models.RoleAuthor)
	_, editorToken := seedUser(t, s, "editor@example.com", models.RoleEditor)
	_, strangerToken := seedUser(t, s, "stranger@example.com", models.RoleContributor)

	seedPost(t, s, author, "Secret Draft", "secret-draft", models.StatusDraft)
	seedPost(t, s, author, "Public Post", "public-post", models.StatusPublished)

	t.Run("draft hidden from anonymous", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/secret-draft", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("draft hidden from other non-editors", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/secret-draft", strangerToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("draft hidden even from its author", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/secret-draft", authorToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("author still reaches own draft via my-posts", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/mine", authorToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, float64(2), body["total"])
	})

	t.Run("editor sees any draft", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/secret-draft", editorToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("published visible to anonymous", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/public-post", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.NotNil(t, body["published_at"])
	})
}

func TestGetPosts_ListingFollowsVisibility(t *testing.T) {
	s, app := newTestServer(t)
	author, _ := seedUser(t, s, "author@example.com", models.RoleAuthor)
	_, editorToken := seedUser(t, s, "editor@example.com", models.RoleEditor)

	seedPost(t, s, author, "Hidden Draft", "hidden-draft", models.StatusDraft)
	seedPost(t, s, author, "Live One", "live-one", models.StatusPublished)
	seedPost(t, s, author, "Live Two", "live-two", models.StatusPublished)

	t.Run("anonymous sees published only", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.EqualValues(t, 2, body["total"])
	})

	t.Run("editor filters by status", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/?status=draft", editorToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.EqualValues(t, 1, body["total"])
	})
}

func TestUpdatePost(t *testing.T) {
	s, app := newTestServer(t)
	author, authorToken := seedUser(t, s, "author@example.com", models.RoleAuthor)
	_, otherToken := seedUser(t, s, "other@example.com", models.RoleAuthor)
	_, editorToken := seedUser(t, s, "editor@example.com", models.RoleEditor)

	seedPost(t, s, author, "Original Title", "original-title", models.StatusDraft)

	t.Run("other authors cannot edit", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/posts/original-title", otherToken, map[string]string{
			"title": "Hijacked",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner edits keep the slug", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/posts/original-title", authorToken, map[string]string{
			"title": "A Much Better Title",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "A Much Better Title", body["title"])
		assert.Equal(t, "original-title", body["slug"])
	})

	t.Run("editor publishes someone else's post", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/posts/original-title", editorToken, map[string]string{
			"status": "published",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "published", body["status"])
		assert.NotNil(t, body["published_at"])
	})
}

func TestDeletePost_RequiresEditorRank(t *testing.T) {
	s, app := newTestServer(t)
	author, authorToken := seedUser(t, s, "author@example.com", models.RoleAuthor)
	_, editorToken := seedUser(t, s, "editor@example.com", models.RoleEditor)

	seedPost(t, s, author, "Doomed Post", "doomed-post", models.StatusDraft)

	// Owning the post does not grant deletion.
	resp := doJSON(t, app, http.MethodDelete, "/api/posts/doomed-post", authorToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/posts/doomed-post", editorToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/posts/doomed-post", editorToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetMyPosts(t *testing.T) {
	s, app := newTestServer(t)
	author, authorToken := seedUser(t, s, "author@example.com", models.RoleAuthor)
	other, _ := seedUser(t, s, "other@example.com", models.RoleAuthor)

	seedPost(t, s, author, "Mine Draft", "mine-draft", models.StatusDraft)
	seedPost(t, s, author, "Mine Live", "mine-live", models.StatusPublished)
	seedPost(t, s, other, "Not Mine", "not-mine", models.StatusPublished)

	resp := doJSON(t, app, http.MethodGet, "/api/posts/mine", authorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.EqualValues(t, 2, body["total"])
}
