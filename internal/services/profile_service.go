package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/storage"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrHandleExists    = errors.New("handle already exists")
)

// ProfileService owns creation and update of a user's profile: one profile
// per user, handle uniqueness on create, ordered skills, nested social links.
type ProfileService interface {
	Upsert(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*models.Profile, error)
	GetByID(ctx context.Context, id string) (*models.Profile, error)
}

// applyProfileFields copies the submitted fields onto the aggregate. Pointer
// fields are skipped when absent so updates leave them untouched.
func applyProfileFields(p *models.Profile, req *models.UpsertProfileRequest) {
	p.Handle = req.Handle
	p.Status = req.Status
	p.Skills = req.SplitSkills()
	if req.Company != nil {
		p.Company = *req.Company
	}
	if req.Website != nil {
		p.Website = *req.Website
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	if req.GithubUsername != nil {
		p.GithubUsername = *req.GithubUsername
	}
	if req.Youtube != nil {
		p.Social.Youtube = *req.Youtube
	}
	if req.Twitter != nil {
		p.Social.Twitter = *req.Twitter
	}
	if req.Facebook != nil {
		p.Social.Facebook = *req.Facebook
	}
	if req.Linkedin != nil {
		p.Social.Linkedin = *req.Linkedin
	}
	if req.Instagram != nil {
		p.Social.Instagram = *req.Instagram
	}
}

type MemoryProfileService struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile // profileID -> profile
	byUser   map[string]string          // userID -> profileID
	byHandle map[string]string          // handle -> profileID
	store    *storage.JSONStore
}

// NewMemoryProfileService builds the in-memory profile store. With a non-empty
// dataDir, state is snapshotted to profiles.json after each mutation.
func NewMemoryProfileService(dataDir string) (*MemoryProfileService, error) {
	s := &MemoryProfileService{
		profiles: make(map[string]*models.Profile),
		byUser:   make(map[string]string),
		byHandle: make(map[string]string),
	}
	if dataDir != "" {
		store, err := storage.NewJSONStore(dataDir, "profiles.json")
		if err != nil {
			return nil, err
		}
		s.store = store
		var snapshot []*models.Profile
		if err := store.Load(&snapshot); err != nil {
			return nil, err
		}
		for _, p := range snapshot {
			s.profiles[p.ID] = p
			s.byUser[p.UserID] = p.ID
			s.byHandle[p.Handle] = p.ID
		}
	}
	return s, nil
}

// persist is called with the write lock held.
func (s *MemoryProfileService) persist() {
	if s.store == nil {
		return
	}
	snapshot := make([]*models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		snapshot = append(snapshot, p)
	}
	if err := s.store.Save(snapshot); err != nil {
		log.Printf("profiles snapshot failed: %v", err)
	}
}

// Upsert creates the user's profile on first submission and updates it in
// place afterwards. Handle uniqueness is checked on the create path only.
func (s *MemoryProfileService) Upsert(ctx context.Context, userID string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	if id, exists := s.byUser[userID]; exists {
		prof := s.profiles[id]
		oldHandle := prof.Handle
		applyProfileFields(prof, req)
		prof.UpdatedAt = now
		if prof.Handle != oldHandle {
			delete(s.byHandle, oldHandle)
			s.byHandle[prof.Handle] = id
		}
		s.persist()

		profCopy := *prof
		return &profCopy, nil
	}

	if _, exists := s.byHandle[req.Handle]; exists {
		return nil, ErrHandleExists
	}

	prof := &models.Profile{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyProfileFields(prof, req)

	s.profiles[prof.ID] = prof
	s.byUser[userID] = prof.ID
	s.byHandle[prof.Handle] = prof.ID
	s.persist()

	profCopy := *prof
	return &profCopy, nil
}

func (s *MemoryProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byUser[userID]
	if !exists {
		return nil, ErrProfileNotFound
	}

	profCopy := *s.profiles[id]
	return &profCopy, nil
}

func (s *MemoryProfileService) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byHandle[handle]
	if !exists {
		return nil, ErrProfileNotFound
	}

	profCopy := *s.profiles[id]
	return &profCopy, nil
}

func (s *MemoryProfileService) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prof, exists := s.profiles[id]
	if !exists {
		return nil, ErrProfileNotFound
	}

	profCopy := *prof
	return &profCopy, nil
}
