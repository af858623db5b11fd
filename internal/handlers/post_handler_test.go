package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devconnect/backend/internal/models"
)

func seedPost(t *testing.T, env *testEnv, userID, text string) models.Post {
	t.Helper()
	post, err := env.posts.Create(context.Background(), userID, &models.CreatePostRequest{Text: text})
	require.NoError(t, err)
	return *post
}

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)

	code, env1 := env.do(t, http.MethodPost, "/api/posts", "u1", models.CreatePostRequest{
		Text: "Shipping my first service today",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env1.Success)

	var post models.Post
	require.NoError(t, json.Unmarshal(env1.Data, &post))
	assert.Equal(t, "u1", post.UserID)
	assert.Equal(t, "Shipping my first service today", post.Text)
	assert.NotEmpty(t, post.ID)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)
}

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodPost, "/api/posts", "u1", models.CreatePostRequest{
		Text: "too short",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Errors, "text")
}

func TestCreatePostRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodPost, "/api/posts", "", models.CreatePostRequest{
		Text: "Shipping my first service today",
	})
	require.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, resp.Success)
}

func TestListPosts(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, code)

	var posts []models.Post
	require.NoError(t, json.Unmarshal(resp.Data, &posts))
	assert.Empty(t, posts)

	seedPost(t, env, "u1", "First post about distributed systems")
	seedPost(t, env, "u2", "Second post about database indexes")

	code, resp = env.do(t, http.MethodGet, "/api/posts", "", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &posts))
	require.Len(t, posts, 2)
}

func TestGetPost(t *testing.T) {
	env := newTestEnv(t)
	post := seedPost(t, env, "u1", "A post worth fetching by its id")

	code, resp := env.do(t, http.MethodGet, "/api/posts/"+post.ID, "", nil)
	require.Equal(t, http.StatusOK, code)

	var got models.Post
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, post.ID, got.ID)

	code, resp = env.do(t, http.MethodGet, "/api/posts/missing", "", nil)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "No post found with that id", resp.Error)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	post := seedPost(t, env, "u1", "A post the author will remove later")

	code, resp := env.do(t, http.MethodDelete, "/api/posts/"+post.ID, "u2", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "User not authorized to delete this post", resp.Error)

	code, resp = env.do(t, http.MethodDelete, "/api/posts/"+post.ID, "u1", nil)
	require.Equal(t, http.StatusOK, code)
	var body map[string]bool
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.True(t, body["success"])

	code, resp = env.do(t, http.MethodDelete, "/api/posts/"+post.ID, "u1", nil)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Post not found", resp.Error)
}

func TestLikeAndUnlikePost(t *testing.T) {
	env := newTestEnv(t)
	post := seedPost(t, env, "u1", "A post that is about to get likes")

	code, resp := env.do(t, http.MethodPost, "/api/posts/like/"+post.ID, "u2", nil)
	require.Equal(t, http.StatusOK, code)

	var got models.Post
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	require.Len(t, got.Likes, 1)
	assert.Equal(t, "u2", got.Likes[0].UserID)

	code, resp = env.do(t, http.MethodPost, "/api/posts/like/"+post.ID, "u2", nil)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User already liked this post", resp.Error)

	code, resp = env.do(t, http.MethodPost, "/api/posts/unlike/"+post.ID, "u2", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Empty(t, got.Likes)

	code, resp = env.do(t, http.MethodPost, "/api/posts/unlike/"+post.ID, "u2", nil)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User has not liked this post", resp.Error)
}

func TestCommentFlow(t *testing.T) {
	env := newTestEnv(t)
	post := seedPost(t, env, "u1", "A post that invites some discussion")

	code, resp := env.do(t, http.MethodPost, "/api/posts/comment/"+post.ID, "u2", models.CreateCommentRequest{
		Text: "Great write-up, thanks for sharing",
	})
	require.Equal(t, http.StatusOK, code)

	var got models.Post
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "u2", got.Comments[0].UserID)
	commentID := got.Comments[0].ID

	// any authenticated user may remove a comment
	code, resp = env.do(t, http.MethodDelete, "/api/posts/comment/"+post.ID+"/"+commentID, "u3", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Empty(t, got.Comments)

	code, resp = env.do(t, http.MethodDelete, "/api/posts/comment/"+post.ID+"/"+commentID, "u3", nil)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Comment does not exist", resp.Error)
}

func TestCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	post := seedPost(t, env, "u1", "A post with strict comment rules")

	code, resp := env.do(t, http.MethodPost, "/api/posts/comment/"+post.ID, "u2", models.CreateCommentRequest{
		Text: "short",
	})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp.Errors, "text")
}

func TestCommentOnMissingPost(t *testing.T) {
	env := newTestEnv(t)

	code, resp := env.do(t, http.MethodPost, "/api/posts/comment/missing", "u2", models.CreateCommentRequest{
		Text: "A comment with nowhere to land",
	})
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "No post found", resp.Error)
}
