package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

type PostHandler struct {
	posts    services.PostService
	validate *validator.Validate
}

func NewPostHandler(posts services.PostService) *PostHandler {
	return &PostHandler{
		posts:    posts,
		validate: validator.New(),
	}
}

// List returns every post, newest first. No authorization required.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	posts, err := h.posts.ListAll(ctx)
	if err != nil {
		log.Printf("[ListPosts] error=%v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load posts"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(posts))
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.posts.GetByID(ctx, postID)
	if err != nil {
		if err == services.ErrPostNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("No post found with that id"))
			return
		}
		log.Printf("[GetPost] post=%s error=%v", postID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load post"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(post))
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(validationMessages(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.posts.Create(ctx, userID, &req)
	if err != nil {
		log.Printf("[CreatePost] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create post"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(post))
}

// Delete removes a post. Only the author may delete it.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	postID := chi.URLParam(r, "postId")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.posts.Delete(ctx, userID, postID); err != nil {
		switch err {
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		case services.ErrNotPostOwner:
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("User not authorized to delete this post"))
		default:
			log.Printf("[DeletePost] user=%s post=%s error=%v", userID, postID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete post"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]bool{"success": true}))
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	postID := chi.URLParam(r, "postId")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.posts.Like(ctx, userID, postID)
	if err != nil {
		switch err {
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		case services.ErrAlreadyLiked:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("User already liked this post"))
		default:
			log.Printf("[LikePost] user=%s post=%s error=%v", userID, postID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to like post"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(post))
}

func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	postID := chi.URLParam(r, "postId")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.posts.Unlike(ctx, userID, postID)
	if err != nil {
		switch err {
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Post not found"))
		case services.ErrNotLiked:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("User has not liked this post"))
		default:
			log.Printf("[UnlikePost] user=%s post=%s error=%v", userID, postID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to unlike post"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(post))
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	postID := chi.URLParam(r, "postId")

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(validationMessages(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.posts.AddComment(ctx, userID, postID, &req)
	if err != nil {
		if err == services.ErrPostNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("No post found"))
			return
		}
		log.Printf("[AddComment] user=%s post=%s error=%v", userID, postID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to add comment"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(post))
}

// RemoveComment deletes a comment by id. Deliberately not ownership-checked;
// only post deletion is.
func (h *PostHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	postID := chi.URLParam(r, "postId")
	commentID := chi.URLParam(r, "commentId")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	post, err := h.posts.RemoveComment(ctx, postID, commentID)
	if err != nil {
		switch err {
		case services.ErrPostNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("No post found"))
		case services.ErrCommentNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Comment does not exist"))
		default:
			log.Printf("[RemoveComment] post=%s comment=%s error=%v", postID, commentID, err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to remove comment"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(post))
}
