package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Comment types. A normal comment sits directly under a blog and can
// receive replies; a reply points at exactly one normal comment.
const (
	CommentTypeNormal = "normal"
	CommentTypeReply  = "reply"
)

var (
	ErrEmptyDescription = errors.New("comment description is required")
	ErrReplyToReply     = errors.New("replies can only target normal comments")
	ErrReplyWrongBlog   = errors.New("parent comment does not belong to this blog")
)

// Comment represents a comment on a blog. ParentID is set only for replies.
type Comment struct {
	gorm.Model
	BlogID   string `json:"blog_id" gorm:"index"` // ID of the blog the comment belongs to (MongoDB ObjectID as string)
	UserID   uint   `json:"user_id" gorm:"index"` // ID of the user who made the comment
	Desc     string `json:"desc" validate:"required,min=1,max=1000"`
	Type     string `json:"type" gorm:"size:10;index"`
	ParentID *uint  `json:"parent_id,omitempty" gorm:"index"`
}

// NewComment builds a top-level comment.
func NewComment(desc string, userID uint, blogID string) (*Comment, error) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return nil, ErrEmptyDescription
	}
	return &Comment{
		BlogID: blogID,
		UserID: userID,
		Desc:   desc,
		Type:   CommentTypeNormal,
	}, nil
}

// NewReply builds a reply to parent. It rejects a parent that is itself a
// reply or that belongs to a different blog, so an invalid reply cannot be
// constructed at all.
func NewReply(desc string, userID uint, blogID string, parent *Comment) (*Comment, error) {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return nil, ErrEmptyDescription
	}
	if parent == nil || parent.Type != CommentTypeNormal {
		return nil, ErrReplyToReply
	}
	if parent.BlogID != blogID {
		return nil, ErrReplyWrongBlog
	}
	parentID := parent.ID
	return &Comment{
		BlogID:   blogID,
		UserID:   userID,
		Desc:     desc,
		Type:     CommentTypeReply,
		ParentID: &parentID,
	}, nil
}

// CommentThread is a normal comment with its direct replies
type CommentThread struct {
	Comment
	Replies []Comment `json:"replies"`
}

// AssembleCommentThread arranges a flat list of comments, already ordered by
// creation time ascending, into a two-level tree. Only normal comments appear
// at the top level; replies whose parent is missing or not normal are dropped
// from the tree (they stay in storage).
func AssembleCommentThread(comments []Comment) []CommentThread {
	nodes := make(map[uint]*CommentThread, len(comments))
	for _, c := range comments {
		nodes[c.ID] = &CommentThread{Comment: c, Replies: []Comment{}}
	}

	for _, c := range comments {
		if c.Type != CommentTypeReply || c.ParentID == nil {
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok || parent.Type != CommentTypeNormal {
			continue // orphaned reply, excluded from the tree
		}
		parent.Replies = append(parent.Replies, c)
	}

	threads := make([]CommentThread, 0, len(comments))
	for _, c := range comments {
		if c.Type == CommentTypeNormal {
			threads = append(threads, *nodes[c.ID])
		}
	}
	return threads
}

// CreateCommentRequest defines the request body for creating a comment or reply
type CreateCommentRequest struct {
	Desc string `json:"desc" validate:"required,min=1,max=1000"`
}
