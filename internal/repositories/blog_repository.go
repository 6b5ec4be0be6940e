package repositories

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/mehrab-dev/blogstack/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBlogNotFound is returned when no blog matches the given ID or slug
var ErrBlogNotFound = fmt.Errorf("blog not found")

// ErrDuplicateSlug is returned when a blog insert collides with the
// unique slug index
var ErrDuplicateSlug = fmt.Errorf("a blog with this slug already exists")

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *models.Blog) error
	GetBlogByID(ctx context.Context, id string) (*models.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error)
	GetPublished(ctx context.Context, skip, limit int64) ([]models.Blog, error)
	CountPublished(ctx context.Context) (int64, error)
	SearchPublished(ctx context.Context, query, locale string, limit int64) ([]models.Blog, error)
	UpdateBlog(ctx context.Context, id string, blog *models.Blog) error
	DeleteBlog(ctx context.Context, id string) error
	DeleteBlogsByUserID(ctx context.Context, userID uint) error
}

// MongoBlogRepository implements BlogRepository for MongoDB
type MongoBlogRepository struct {
	collection *mongo.Collection
}

// NewMongoBlogRepository creates a new MongoBlogRepository
func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	collection := db.Collection("blogs")

	// Slug is the lookup key everywhere, so uniqueness is enforced at the
	// storage level; the handler's pre-check alone loses races.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Printf("Failed to create unique slug index on blogs: %v", err)
	}

	return &MongoBlogRepository{collection: collection}
}

// CreateBlog creates a new blog in MongoDB
func (r *MongoBlogRepository) CreateBlog(ctx context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, blog)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateSlug
	}
	return err
}

// GetBlogByID retrieves a blog by ID from MongoDB
func (r *MongoBlogRepository) GetBlogByID(ctx context.Context, id string) (*models.Blog, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid blog ID format: %w", err)
	}

	var blog models.Blog
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// GetBlogBySlug retrieves a blog by its slug from MongoDB
func (r *MongoBlogRepository) GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var blog models.Blog
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// GetPublished retrieves published blogs from MongoDB with pagination, newest first
func (r *MongoBlogRepository) GetPublished(ctx context.Context, skip, limit int64) ([]models.Blog, error) {
	var blogs []models.Blog
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "published_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"published_at": bson.M{"$ne": nil}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// CountPublished counts published blogs in MongoDB
func (r *MongoBlogRepository) CountPublished(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"published_at": bson.M{"$ne": nil}})
}

// SearchPublished retrieves published blogs whose title contains the query
// (case-insensitive) for one locale, ordered alphabetically by title
func (r *MongoBlogRepository) SearchPublished(ctx context.Context, query, locale string, limit int64) ([]models.Blog, error) {
	var blogs []models.Blog
	filter := bson.M{
		"title":        bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"},
		"locale":       locale,
		"published_at": bson.M{"$ne": nil},
	}
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "title", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// UpdateBlog updates an existing blog in MongoDB
func (r *MongoBlogRepository) UpdateBlog(ctx context.Context, id string, blog *models.Blog) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid blog ID format: %w", err)
	}

	blog.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":        blog.Title,
			"desc":         blog.Desc,
			"cover_url":    blog.CoverURL,
			"published_at": blog.PublishedAt,
			"updated_at":   blog.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// DeleteBlog deletes a blog by ID from MongoDB
func (r *MongoBlogRepository) DeleteBlog(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid blog ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrBlogNotFound
	}
	return nil
}

// DeleteBlogsByUserID deletes all blogs owned by a user from MongoDB
func (r *MongoBlogRepository) DeleteBlogsByUserID(ctx context.Context, userID uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
