package repositories

import (
	"github.com/mehrab-dev/blogstack/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetCommentsByBlogID(blogID string) ([]models.Comment, error)
	CountByBlogID(blogID string) (int64, error)
	DeleteComment(id uint) error
	DeleteRepliesByParentID(parentID uint) error
	DeleteCommentsByUserID(userID uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByBlogID retrieves all comments for a blog ordered by creation time
func (r *PostgresCommentRepository) GetCommentsByBlogID(blogID string) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Where("blog_id = ?", blogID).Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByBlogID counts all comments attached to a blog
func (r *PostgresCommentRepository) CountByBlogID(blogID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("blog_id = ?", blogID).Count(&count).Error
	return count, err
}

// DeleteComment deletes a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) DeleteComment(id uint) error {
	return r.db.Unscoped().Delete(&models.Comment{}, id).Error
}

// DeleteRepliesByParentID deletes all replies attached to a normal comment
func (r *PostgresCommentRepository) DeleteRepliesByParentID(parentID uint) error {
	return r.db.Unscoped().Where("parent_id = ?", parentID).Delete(&models.Comment{}).Error
}

// DeleteCommentsByUserID deletes all comments made by a user
func (r *PostgresCommentRepository) DeleteCommentsByUserID(userID uint) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&models.Comment{}).Error
}
