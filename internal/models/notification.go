package models

import "time"

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Type      string    `json:"type" gorm:"size:30;index"` // comment, reply, reaction
	UserID    uint      `json:"user_id" gorm:"index"`      // recipient
	ActorID   uint      `json:"actor_id" gorm:"index"`     // user whose action triggered it
	BlogID    string    `json:"blog_id"`                   // blog the event happened on
	CommentID *uint     `json:"comment_id,omitempty"`
	Message   string    `json:"message"`
	Seen      bool      `json:"seen" gorm:"default:false;index"` // monotonic false -> true
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
