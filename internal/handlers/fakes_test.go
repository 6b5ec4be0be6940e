package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mehrab-dev/blogstack/backend/internal/models"
	"github.com/mehrab-dev/blogstack/backend/internal/repositories"
	"github.com/mehrab-dev/blogstack/backend/validators"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// newTestContext builds an Echo context the way the JWT middleware would
// leave it, optionally carrying authenticated claims.
func newTestContext(t *testing.T, method, target string, body interface{}, claims *models.JwtCustomClaims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validators.NewValidator()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("user", claims)
	}
	return c, rec
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func claimsFor(user *models.User) *models.JwtCustomClaims {
	return &models.JwtCustomClaims{UserID: user.ID, Email: user.Email, Role: user.Role}
}

// httpStatus extracts the status code from a handler's returned error
func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

// --- fake repositories ---

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) add(name, role, status string) *models.User {
	u := &models.User{
		Name:          name,
		Email:         name + "@example.com",
		Role:          role,
		AccountStatus: status,
	}
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, u := range r.users {
		if u.FirebaseUID != nil && *u.FirebaseUID == firebaseUID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	for _, u := range r.users {
		if u.ID != user.ID && u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) DeleteUser(id uint) error {
	delete(r.users, id)
	return nil
}

type fakeBlogRepo struct {
	blogs       map[string]*models.Blog // keyed by slug
	searchCalls int
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: map[string]*models.Blog{}}
}

func (r *fakeBlogRepo) add(slug, title, locale string, userID uint, published bool) *models.Blog {
	b := &models.Blog{
		ID:     primitive.NewObjectID(),
		Slug:   slug,
		Locale: locale,
		Title:  title,
		Desc:   "desc",
		UserID: userID,
	}
	if published {
		now := time.Now()
		b.PublishedAt = &now
	}
	r.blogs[slug] = b
	return b
}

func (r *fakeBlogRepo) CreateBlog(_ context.Context, blog *models.Blog) error {
	if _, exists := r.blogs[blog.Slug]; exists {
		return repositories.ErrDuplicateSlug
	}
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = time.Now()
	r.blogs[blog.Slug] = blog
	return nil
}

func (r *fakeBlogRepo) GetBlogByID(_ context.Context, id string) (*models.Blog, error) {
	for _, b := range r.blogs {
		if b.ID.Hex() == id {
			return b, nil
		}
	}
	return nil, errBlogMissing
}

func (r *fakeBlogRepo) GetBlogBySlug(_ context.Context, slug string) (*models.Blog, error) {
	if b, ok := r.blogs[slug]; ok {
		return b, nil
	}
	return nil, errBlogMissing
}

func (r *fakeBlogRepo) GetPublished(_ context.Context, skip, limit int64) ([]models.Blog, error) {
	var out []models.Blog
	for _, b := range r.blogs {
		if b.IsPublished() {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBlogRepo) CountPublished(_ context.Context) (int64, error) {
	var n int64
	for _, b := range r.blogs {
		if b.IsPublished() {
			n++
		}
	}
	return n, nil
}

func (r *fakeBlogRepo) SearchPublished(_ context.Context, query, locale string, limit int64) ([]models.Blog, error) {
	r.searchCalls++
	var out []models.Blog
	for _, b := range r.blogs {
		if !b.IsPublished() || b.Locale != locale {
			continue
		}
		if strings.Contains(strings.ToLower(b.Title), strings.ToLower(query)) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBlogRepo) UpdateBlog(_ context.Context, id string, blog *models.Blog) error {
	r.blogs[blog.Slug] = blog
	return nil
}

func (r *fakeBlogRepo) DeleteBlog(_ context.Context, id string) error {
	for slug, b := range r.blogs {
		if b.ID.Hex() == id {
			delete(r.blogs, slug)
			return nil
		}
	}
	return errBlogMissing
}

func (r *fakeBlogRepo) DeleteBlogsByUserID(_ context.Context, userID uint) error {
	for slug, b := range r.blogs {
		if b.UserID == userID {
			delete(r.blogs, slug)
		}
	}
	return nil
}

type fakeCommentRepo struct {
	comments map[uint]*models.Comment
	nextID   uint
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[uint]*models.Comment{}, nextID: 1}
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error {
	comment.ID = r.nextID
	comment.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Millisecond)
	r.nextID++
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	if c, ok := r.comments[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCommentRepo) GetCommentsByBlogID(blogID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.BlogID == blogID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCommentRepo) CountByBlogID(blogID string) (int64, error) {
	var n int64
	for _, c := range r.comments {
		if c.BlogID == blogID {
			n++
		}
	}
	return n, nil
}

func (r *fakeCommentRepo) DeleteComment(id uint) error {
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteRepliesByParentID(parentID uint) error {
	for id, c := range r.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			delete(r.comments, id)
		}
	}
	return nil
}

func (r *fakeCommentRepo) DeleteCommentsByUserID(userID uint) error {
	for id, c := range r.comments {
		if c.UserID == userID {
			delete(r.comments, id)
		}
	}
	return nil
}

type fakeReactionRepo struct {
	reactions map[uint]*models.Reaction
	nextID    uint
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{reactions: map[uint]*models.Reaction{}, nextID: 1}
}

func (r *fakeReactionRepo) CreateReaction(reaction *models.Reaction) error {
	for _, existing := range r.reactions {
		if existing.BlogID == reaction.BlogID && existing.UserID == reaction.UserID {
			return gorm.ErrDuplicatedKey // unique index on (user, blog)
		}
	}
	reaction.ID = r.nextID
	r.nextID++
	r.reactions[reaction.ID] = reaction
	return nil
}

func (r *fakeReactionRepo) GetReactionsByBlogID(blogID string) ([]models.Reaction, error) {
	var out []models.Reaction
	for _, re := range r.reactions {
		if re.BlogID == blogID {
			out = append(out, *re)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeReactionRepo) HasUserReacted(blogID string, userID uint) (bool, error) {
	for _, re := range r.reactions {
		if re.BlogID == blogID && re.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReactionRepo) GetUserReaction(id uint, blogID string, userID uint) (*models.Reaction, error) {
	if re, ok := r.reactions[id]; ok && re.BlogID == blogID && re.UserID == userID {
		return re, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeReactionRepo) UpdateReaction(reaction *models.Reaction) error {
	r.reactions[reaction.ID] = reaction
	return nil
}

func (r *fakeReactionRepo) DeleteReaction(id uint) error {
	delete(r.reactions, id)
	return nil
}

func (r *fakeReactionRepo) DeleteReactionsByUserID(userID uint) error {
	for id, re := range r.reactions {
		if re.UserID == userID {
			delete(r.reactions, id)
		}
	}
	return nil
}

type fakeNotificationRepo struct {
	notifications map[uint]*models.Notification
	nextID        uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[uint]*models.Notification{}, nextID: 1}
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	r.nextID++
	r.notifications[n.ID] = n
	return nil
}

func (r *fakeNotificationRepo) GetNotificationByID(id uint) (*models.Notification, error) {
	if n, ok := r.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) GetByUserID(userID uint, page, limit int) ([]models.Notification, int64, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) MarkSeen(id uint) error {
	if n, ok := r.notifications[id]; ok {
		n.Seen = true
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteByUserID(userID uint) error {
	for id, n := range r.notifications {
		if n.UserID == userID {
			delete(r.notifications, id)
		}
	}
	return nil
}

var errBlogMissing = repositories.ErrBlogNotFound
