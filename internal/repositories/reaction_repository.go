package repositories

import (
	"github.com/mehrab-dev/blogstack/backend/internal/models"
	"gorm.io/gorm"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	CreateReaction(reaction *models.Reaction) error
	GetReactionsByBlogID(blogID string) ([]models.Reaction, error)
	HasUserReacted(blogID string, userID uint) (bool, error)
	GetUserReaction(id uint, blogID string, userID uint) (*models.Reaction, error)
	UpdateReaction(reaction *models.Reaction) error
	DeleteReaction(id uint) error
	DeleteReactionsByUserID(userID uint) error
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// CreateReaction creates a new reaction in PostgreSQL
func (r *PostgresReactionRepository) CreateReaction(reaction *models.Reaction) error {
	return r.db.Create(reaction).Error
}

// GetReactionsByBlogID retrieves all reactions for a blog from PostgreSQL
func (r *PostgresReactionRepository) GetReactionsByBlogID(blogID string) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if err := r.db.Where("blog_id = ?", blogID).Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}

// HasUserReacted checks whether a user already reacted to a blog
func (r *PostgresReactionRepository) HasUserReacted(blogID string, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Reaction{}).Where("blog_id = ? AND user_id = ?", blogID, userID).Count(&count).Error
	return count > 0, err
}

// GetUserReaction retrieves a reaction scoped to (id, blog, user)
func (r *PostgresReactionRepository) GetUserReaction(id uint, blogID string, userID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.Where("id = ? AND blog_id = ? AND user_id = ?", id, blogID, userID).First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// UpdateReaction updates an existing reaction in PostgreSQL
func (r *PostgresReactionRepository) UpdateReaction(reaction *models.Reaction) error {
	return r.db.Model(reaction).Update("type", reaction.Type).Error
}

// DeleteReaction deletes a reaction by ID from PostgreSQL
func (r *PostgresReactionRepository) DeleteReaction(id uint) error {
	return r.db.Unscoped().Delete(&models.Reaction{}, id).Error
}

// DeleteReactionsByUserID deletes all reactions made by a user
func (r *PostgresReactionRepository) DeleteReactionsByUserID(userID uint) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&models.Reaction{}).Error
}
