package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/storage"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
)

// UserService manages accounts. Profiles and posts reference users by id only;
// reads denormalize name and avatar through GetByID.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// GravatarURL derives a default avatar from the account email.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}

type MemoryUserService struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	byEmail map[string]string // email -> userID
	store   *storage.JSONStore
}

// NewMemoryUserService builds the in-memory account store. With a non-empty
// dataDir, state is snapshotted to users.json after each mutation.
func NewMemoryUserService(dataDir string) (*MemoryUserService, error) {
	s := &MemoryUserService{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
	if dataDir != "" {
		store, err := storage.NewJSONStore(dataDir, "users.json")
		if err != nil {
			return nil, err
		}
		s.store = store
		var snapshot []*models.User
		if err := store.Load(&snapshot); err != nil {
			return nil, err
		}
		for _, u := range snapshot {
			s.users[u.ID] = u
			s.byEmail[u.Email] = u.ID
		}
	}
	return s, nil
}

// persist is called with the write lock held.
func (s *MemoryUserService) persist() {
	if s.store == nil {
		return
	}
	snapshot := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		snapshot = append(snapshot, u)
	}
	if err := s.store.Save(snapshot); err != nil {
		log.Printf("users snapshot failed: %v", err)
	}
}

func (s *MemoryUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[req.Email]; exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Avatar:       GravatarURL(req.Email),
		CreatedAt:    time.Now().UTC(),
	}

	s.users[user.ID] = user
	s.byEmail[user.Email] = user.ID
	s.persist()

	userCopy := *user
	return &userCopy, nil
}

func (s *MemoryUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, exists := s.byEmail[req.Email]
	if !exists {
		return nil, ErrUserNotFound
	}

	user := s.users[userID]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}

	userCopy := *user
	return &userCopy, nil
}

func (s *MemoryUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}

	userCopy := *user
	return &userCopy, nil
}
