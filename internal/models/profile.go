package models

import (
	"strings"
	"time"
)

// SocialLinks groups the optional external links attached to a profile.
type SocialLinks struct {
	Youtube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

// Profile is a user's professional profile. At most one exists per user, and
// the handle is unique across profiles at creation time.
type Profile struct {
	ID             string      `json:"id" bson:"_id"`
	UserID         string      `json:"user_id" bson:"user_id"`
	Handle         string      `json:"handle" bson:"handle"`
	Company        string      `json:"company,omitempty" bson:"company,omitempty"`
	Website        string      `json:"website,omitempty" bson:"website,omitempty"`
	Location       string      `json:"location,omitempty" bson:"location,omitempty"`
	Status         string      `json:"status" bson:"status"`
	Bio            string      `json:"bio,omitempty" bson:"bio,omitempty"`
	GithubUsername string      `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Skills         []string    `json:"skills" bson:"skills"`
	Social         SocialLinks `json:"social" bson:"social"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updated_at"`

	// User carries the owning account's name and avatar on reads. Never stored.
	User *UserSummary `json:"user,omitempty" bson:"-"`
}

// IsOwnedBy reports whether userID owns this profile.
func (p *Profile) IsOwnedBy(userID string) bool {
	return p.UserID == userID
}

// UpsertProfileRequest is the profile form payload. Optional fields are
// pointers: a key absent from the request leaves the stored value untouched
// on update.
type UpsertProfileRequest struct {
	Handle         string  `json:"handle" validate:"required,min=2,max=40"`
	Status         string  `json:"status" validate:"required"`
	Skills         string  `json:"skills" validate:"required"`
	Company        *string `json:"company"`
	Website        *string `json:"website" validate:"omitempty,url"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`
	Youtube        *string `json:"youtube" validate:"omitempty,url"`
	Twitter        *string `json:"twitter" validate:"omitempty,url"`
	Facebook       *string `json:"facebook" validate:"omitempty,url"`
	Linkedin       *string `json:"linkedin" validate:"omitempty,url"`
	Instagram      *string `json:"instagram" validate:"omitempty,url"`
}

// SplitSkills turns the comma-separated skills field into an ordered list.
// Empty entries are kept: "go,,rust" has three entries.
func (r *UpsertProfileRequest) SplitSkills() []string {
	return strings.Split(r.Skills, ",")
}
