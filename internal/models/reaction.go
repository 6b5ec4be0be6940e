package models

import "gorm.io/gorm"

// ReactionTypes is the fixed set of supported reaction kinds
var ReactionTypes = []string{"like", "love", "angry", "sad", "haha"}

// Reaction represents a user's reaction to a blog. The composite unique
// index makes "one reaction per (user, blog)" a storage-level invariant,
// so a lost check-then-act race surfaces as a constraint violation.
type Reaction struct {
	gorm.Model
	BlogID string `json:"blog_id" gorm:"index;uniqueIndex:idx_reactions_user_blog"` // ID of the blog (MongoDB ObjectID as string)
	UserID uint   `json:"user_id" gorm:"index;uniqueIndex:idx_reactions_user_blog"` // ID of the user who reacted
	Type   string `json:"type" gorm:"size:10" validate:"required,oneof=like love angry sad haha"`
}

// CreateReactionRequest defines the request body for reacting to a blog
type CreateReactionRequest struct {
	Type string `json:"type" validate:"required,oneof=like love angry sad haha"`
}

// UpdateReactionRequest defines the request body for changing a reaction type
type UpdateReactionRequest struct {
	Type string `json:"type" validate:"required,oneof=like love angry sad haha"`
}
