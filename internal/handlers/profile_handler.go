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

type ProfileHandler struct {
	profiles services.ProfileService
	users    services.UserService
	validate *validator.Validate
}

func NewProfileHandler(profiles services.ProfileService, users services.UserService) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		users:    users,
		validate: validator.New(),
	}
}

// GetCurrent returns the authenticated user's own profile.
func (h *ProfileHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	prof, err := h.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("There is no profile for this user"))
			return
		}
		log.Printf("[GetProfile] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	h.attachUser(ctx, prof)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

// Upsert creates the profile on first submission and updates it afterwards.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.UpsertProfileRequest
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

	prof, err := h.profiles.Upsert(ctx, userID, &req)
	if err != nil {
		if err == services.ErrHandleExists {
			writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(map[string]string{
				"handle": "That handle already exists",
			}))
			return
		}
		log.Printf("[UpsertProfile] user=%s error=%v", userID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save profile"))
		return
	}

	h.attachUser(ctx, prof)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

// GetByHandle is a public read path; no authorization required.
func (h *ProfileHandler) GetByHandle(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	if handle == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing handle"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	prof, err := h.profiles.GetByHandle(ctx, handle)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("There is no profile for this user"))
			return
		}
		log.Printf("[GetProfileByHandle] handle=%s error=%v", handle, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	h.attachUser(ctx, prof)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

// GetByID is a public read path keyed by profile id.
func (h *ProfileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileId")
	if profileID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Missing profile id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	prof, err := h.profiles.GetByID(ctx, profileID)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Profile not found"))
			return
		}
		log.Printf("[GetProfileByID] id=%s error=%v", profileID, err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	h.attachUser(ctx, prof)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

// attachUser fills the owning account's name and avatar, best-effort.
func (h *ProfileHandler) attachUser(ctx context.Context, prof *models.Profile) {
	u, err := h.users.GetByID(ctx, prof.UserID)
	if err != nil {
		return
	}
	prof.User = &models.UserSummary{
		ID:     u.ID,
		Name:   u.Name,
		Avatar: u.Avatar,
	}
}
