package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

// apiEnvelope mirrors models.APIResponse for decoding in tests.
type apiEnvelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

type testEnv struct {
	users    *services.MemoryUserService
	profiles *services.MemoryProfileService
	posts    *services.MemoryPostService
	router   chi.Router
}

// testAuth stands in for the JWT middleware: the acting user comes from the
// X-Test-User header. The real token path is covered by the middleware tests.
func testAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-Test-User")
		if userID == "" {
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
			return
		}
		ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users, err := services.NewMemoryUserService("")
	require.NoError(t, err)
	profiles, err := services.NewMemoryProfileService("")
	require.NoError(t, err)
	posts, err := services.NewMemoryPostService("")
	require.NoError(t, err)

	authHandler := NewAuthHandler(users, "test-secret", time.Hour)
	profileHandler := NewProfileHandler(profiles, users)
	postHandler := NewPostHandler(posts)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", authHandler.Register)
		r.Post("/users/login", authHandler.Login)

		r.Get("/profile/handle/{handle}", profileHandler.GetByHandle)
		r.Get("/profile/user/{profileId}", profileHandler.GetByID)

		r.Get("/posts", postHandler.List)
		r.Get("/posts/{postId}", postHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(testAuth)

			r.Get("/users/current", authHandler.Current)

			r.Get("/profile", profileHandler.GetCurrent)
			r.Post("/profile", profileHandler.Upsert)

			r.Post("/posts", postHandler.Create)
			r.Delete("/posts/{postId}", postHandler.Delete)
			r.Post("/posts/like/{postId}", postHandler.Like)
			r.Post("/posts/unlike/{postId}", postHandler.Unlike)
			r.Post("/posts/comment/{postId}", postHandler.AddComment)
			r.Delete("/posts/comment/{postId}/{commentId}", postHandler.RemoveComment)
		})
	})

	return &testEnv{
		users:    users,
		profiles: profiles,
		posts:    posts,
		router:   r,
	}
}

// do performs a request as userID (empty for anonymous) and decodes the
// response envelope.
func (e *testEnv) do(t *testing.T, method, path, userID string, body interface{}) (int, apiEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}
