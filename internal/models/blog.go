package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog represents a blog post stored in MongoDB
type Blog struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Slug        string             `json:"slug" bson:"slug"` // unique human-readable key
	Locale      string             `json:"locale" bson:"locale"`
	Title       string             `json:"title" bson:"title"`
	Desc        string             `json:"desc" bson:"desc"`
	CoverURL    string             `json:"cover_url,omitempty" bson:"cover_url,omitempty"`
	UserID      uint               `json:"user_id" bson:"user_id"` // ID of the owning user in PostgreSQL
	PublishedAt *time.Time         `json:"published_at" bson:"published_at"` // nil means draft
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsPublished reports whether the blog is visible to readers
func (b *Blog) IsPublished() bool {
	return b.PublishedAt != nil
}

// CreateBlogRequest defines the request body for creating a new blog
type CreateBlogRequest struct {
	Slug     string `json:"slug" validate:"required,min=3,max=100"`
	Locale   string `json:"locale,omitempty" validate:"omitempty,min=2,max=10"`
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Desc     string `json:"desc" validate:"required,min=1"`
	CoverURL string `json:"cover_url,omitempty" validate:"omitempty,url"`
	Publish  bool   `json:"publish"`
}

// UpdateBlogRequest defines the request body for updating an existing blog
type UpdateBlogRequest struct {
	Title    string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Desc     string `json:"desc,omitempty" validate:"omitempty,min=1"`
	CoverURL string `json:"cover_url,omitempty" validate:"omitempty,url"`
	Publish  *bool  `json:"publish,omitempty"`
}

// BlogListItem is a blog enriched with its comment count and reactions
type BlogListItem struct {
	Blog
	CommentsCount int64      `json:"commentsCount"`
	Reactions     []Reaction `json:"reactions"`
}
