package models

import (
	"time"
)

// Like marks a single user's like. A user appears at most once per post.
type Like struct {
	UserID string `json:"user_id" bson:"user_id"`
}

type Comment struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Text      string    `json:"text" bson:"text"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Avatar    string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Post is the activity-feed aggregate. Likes and comments are embedded and
// mutated together with the post as one consistency unit; both slices are
// newest-first.
type Post struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Text      string    `json:"text" bson:"text"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Avatar    string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Likes     []Like    `json:"likes" bson:"likes"`
	Comments  []Comment `json:"comments" bson:"comments"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// IsOwnedBy reports whether userID authored this post. Only the author may
// delete it.
func (p *Post) IsOwnedBy(userID string) bool {
	return p.UserID == userID
}

// LikedBy reports whether userID already appears in the likes.
func (p *Post) LikedBy(userID string) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

type CreatePostRequest struct {
	Text   string `json:"text" validate:"required,min=10,max=300"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// CreateCommentRequest shares the post text length rules.
type CreateCommentRequest struct {
	Text   string `json:"text" validate:"required,min=10,max=300"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
