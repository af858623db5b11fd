package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/storage"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrNotPostOwner    = errors.New("user not authorized to modify this post")
	ErrAlreadyLiked    = errors.New("user already liked this post")
	ErrNotLiked        = errors.New("user has not liked this post")
	ErrCommentNotFound = errors.New("comment not found")
)

// PostService owns the post lifecycle and the mutation of its embedded likes
// and comments. Any authenticated user may like or comment; only the author
// may delete the post itself.
type PostService interface {
	Create(ctx context.Context, userID string, req *models.CreatePostRequest) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListAll(ctx context.Context) ([]*models.Post, error)
	Delete(ctx context.Context, userID, postID string) error
	Like(ctx context.Context, userID, postID string) (*models.Post, error)
	Unlike(ctx context.Context, userID, postID string) (*models.Post, error)
	AddComment(ctx context.Context, userID, postID string, req *models.CreateCommentRequest) (*models.Post, error)
	RemoveComment(ctx context.Context, postID, commentID string) (*models.Post, error)
}

type MemoryPostService struct {
	mu    sync.RWMutex
	posts map[string]*models.Post
	store *storage.JSONStore
}

// NewMemoryPostService builds the in-memory post store. With a non-empty
// dataDir, state is snapshotted to posts.json after each mutation.
func NewMemoryPostService(dataDir string) (*MemoryPostService, error) {
	s := &MemoryPostService{
		posts: make(map[string]*models.Post),
	}
	if dataDir != "" {
		store, err := storage.NewJSONStore(dataDir, "posts.json")
		if err != nil {
			return nil, err
		}
		s.store = store
		var snapshot []*models.Post
		if err := store.Load(&snapshot); err != nil {
			return nil, err
		}
		for _, p := range snapshot {
			s.posts[p.ID] = p
		}
	}
	return s, nil
}

// persist is called with the write lock held.
func (s *MemoryPostService) persist() {
	if s.store == nil {
		return
	}
	snapshot := make([]*models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		snapshot = append(snapshot, p)
	}
	if err := s.store.Save(snapshot); err != nil {
		log.Printf("posts snapshot failed: %v", err)
	}
}

func (s *MemoryPostService) Create(ctx context.Context, userID string, req *models.CreatePostRequest) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := &models.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      req.Text,
		Name:      req.Name,
		Avatar:    req.Avatar,
		Likes:     []models.Like{},
		Comments:  []models.Comment{},
		CreatedAt: time.Now().UTC(),
	}

	s.posts[post.ID] = post
	s.persist()

	postCopy := *post
	return &postCopy, nil
}

func (s *MemoryPostService) GetByID(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, ErrPostNotFound
	}

	postCopy := *post
	return &postCopy, nil
}

// ListAll returns every post, newest first.
func (s *MemoryPostService) ListAll(ctx context.Context) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Post, 0, len(s.posts))
	for _, post := range s.posts {
		postCopy := *post
		out = append(out, &postCopy)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryPostService) Delete(ctx context.Context, userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[postID]
	if !exists {
		return ErrPostNotFound
	}
	if !post.IsOwnedBy(userID) {
		return ErrNotPostOwner
	}

	delete(s.posts, postID)
	s.persist()
	return nil
}

// Like prepends {userID} to the post's likes. A user may like a post once.
func (s *MemoryPostService) Like(ctx context.Context, userID, postID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[postID]
	if !exists {
		return nil, ErrPostNotFound
	}
	if post.LikedBy(userID) {
		return nil, ErrAlreadyLiked
	}

	post.Likes = append([]models.Like{{UserID: userID}}, post.Likes...)
	s.persist()

	postCopy := *post
	return &postCopy, nil
}

// Unlike removes the user's like entry; the likes invariant guarantees at
// most one match.
func (s *MemoryPostService) Unlike(ctx context.Context, userID, postID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[postID]
	if !exists {
		return nil, ErrPostNotFound
	}
	if !post.LikedBy(userID) {
		return nil, ErrNotLiked
	}

	likes := make([]models.Like, 0, len(post.Likes)-1)
	for _, l := range post.Likes {
		if l.UserID != userID {
			likes = append(likes, l)
		}
	}
	post.Likes = likes
	s.persist()

	postCopy := *post
	return &postCopy, nil
}

func (s *MemoryPostService) AddComment(ctx context.Context, userID, postID string, req *models.CreateCommentRequest) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[postID]
	if !exists {
		return nil, ErrPostNotFound
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      req.Text,
		Name:      req.Name,
		Avatar:    req.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	post.Comments = append([]models.Comment{comment}, post.Comments...)
	s.persist()

	postCopy := *post
	return &postCopy, nil
}

// RemoveComment deletes the comment with the given id. Any authenticated user
// may remove a comment; only post deletion is ownership-checked.
func (s *MemoryPostService) RemoveComment(ctx context.Context, postID, commentID string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[postID]
	if !exists {
		return nil, ErrPostNotFound
	}

	idx := -1
	for i, c := range post.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrCommentNotFound
	}

	comments := make([]models.Comment, 0, len(post.Comments)-1)
	comments = append(comments, post.Comments[:idx]...)
	comments = append(comments, post.Comments[idx+1:]...)
	post.Comments = comments
	s.persist()

	postCopy := *post
	return &postCopy, nil
}
