package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mehrab-dev/blogstack/backend/internal/models"
	"github.com/mehrab-dev/blogstack/backend/internal/repositories"
)

// BlogHandler handles HTTP requests related to blogs
type BlogHandler struct {
	blogRepository     repositories.BlogRepository
	commentRepository  repositories.CommentRepository
	reactionRepository repositories.ReactionRepository
	userRepository     repositories.UserRepository
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(
	blogRepo repositories.BlogRepository,
	commentRepo repositories.CommentRepository,
	reactionRepo repositories.ReactionRepository,
	userRepo repositories.UserRepository,
) *BlogHandler {
	return &BlogHandler{
		blogRepository:     blogRepo,
		commentRepository:  commentRepo,
		reactionRepository: reactionRepo,
		userRepository:     userRepo,
	}
}

// RegisterPublicRoutes registers blog routes that do not require authentication
func (h *BlogHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/blogs", h.ListBlogs)
	g.GET("/blogs/search", h.SearchBlogs)
	g.GET("/blogs/:slug", h.GetBlogBySlug)
}

// RegisterAuthorRoutes registers blog routes for authenticated authors
func (h *BlogHandler) RegisterAuthorRoutes(g *echo.Group) {
	g.POST("/blogs", h.CreateBlog)
	g.PUT("/blogs/:slug", h.UpdateBlog)
	g.DELETE("/blogs/:slug", h.DeleteBlog)
}

// BlogDetail is a blog enriched with its comment tree and reactions
type BlogDetail struct {
	models.Blog
	Author    *models.UserCompact    `json:"author,omitempty"`
	Comments  []models.CommentThread `json:"comments"`
	Reactions []models.Reaction      `json:"reactions"`
}

// ListBlogs returns published blogs with injected comment counts and reactions
func (h *BlogHandler) ListBlogs(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	skip := int64((page - 1) * limit)
	blogs, err := h.blogRepository.GetPublished(c.Request().Context(), skip, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	total, err := h.blogRepository.CountPublished(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The per-blog count and reaction fetches target disjoint rows, so they
	// run concurrently.
	items := make([]models.BlogListItem, len(blogs))
	var wg sync.WaitGroup
	for i, blog := range blogs {
		wg.Add(1)
		go func(i int, blog models.Blog) {
			defer wg.Done()
			blogID := blog.ID.Hex()
			count, _ := h.commentRepository.CountByBlogID(blogID)
			reactions, _ := h.reactionRepository.GetReactionsByBlogID(blogID)
			if reactions == nil {
				reactions = []models.Reaction{}
			}
			items[i] = models.BlogListItem{Blog: blog, CommentsCount: count, Reactions: reactions}
		}(i, blog)
	}
	wg.Wait()

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": echo.Map{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalItems":   total,
			"itemsPerPage": limit,
		},
	})
}

// SearchBlogs returns up to 5 published blogs whose title contains the query
func (h *BlogHandler) SearchBlogs(c echo.Context) error {
	query := c.QueryParam("query")
	locale := c.QueryParam("locale")
	if locale == "" {
		locale = "en"
	}

	// Empty query returns an empty result without touching storage
	if query == "" {
		return c.JSON(http.StatusOK, echo.Map{"data": []models.Blog{}})
	}

	blogs, err := h.blogRepository.SearchPublished(c.Request().Context(), query, locale, 5)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if blogs == nil {
		blogs = []models.Blog{}
	}

	return c.JSON(http.StatusOK, echo.Map{"data": blogs})
}

// GetBlogBySlug returns a published blog with its comment tree and reactions
func (h *BlogHandler) GetBlogBySlug(c echo.Context) error {
	slug := c.Param("slug")

	blog, err := h.blogRepository.GetBlogBySlug(c.Request().Context(), slug)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}
	if !blog.IsPublished() {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}

	blogID := blog.ID.Hex()

	comments, err := h.commentRepository.GetCommentsByBlogID(blogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	reactions, err := h.reactionRepository.GetReactionsByBlogID(blogID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if reactions == nil {
		reactions = []models.Reaction{}
	}

	detail := BlogDetail{
		Blog:      *blog,
		Comments:  models.AssembleCommentThread(comments),
		Reactions: reactions,
	}
	if owner, err := h.userRepository.GetUserByID(blog.UserID); err == nil {
		compact := owner.ToCompact()
		detail.Author = &compact
	}

	return c.JSON(http.StatusOK, echo.Map{"data": detail})
}

// CreateBlog creates a new blog owned by the authenticated author
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "You must be logged in")
	}
	if claims.Role != models.RoleAuthor && claims.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Only authors can create blogs")
	}

	var req models.CreateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.blogRepository.GetBlogBySlug(c.Request().Context(), req.Slug); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "A blog with this slug already exists")
	}

	locale := req.Locale
	if locale == "" {
		locale = "en"
	}

	blog := &models.Blog{
		Slug:     req.Slug,
		Locale:   locale,
		Title:    req.Title,
		Desc:     req.Desc,
		CoverURL: req.CoverURL,
		UserID:   claims.UserID,
	}
	if req.Publish {
		now := time.Now()
		blog.PublishedAt = &now
	}

	// The unique slug index backs up the check above; a lost race fails
	// here instead of inserting a second blog under the same slug.
	if err := h.blogRepository.CreateBlog(c.Request().Context(), blog); err != nil {
		if errors.Is(err, repositories.ErrDuplicateSlug) {
			return echo.NewHTTPError(http.StatusConflict, "A blog with this slug already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"data": blog, "message": "Blog created successfully"})
}

// UpdateBlog updates a blog owned by the authenticated user
func (h *BlogHandler) UpdateBlog(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "You must be logged in")
	}

	blog, err := h.blogRepository.GetBlogBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}
	if blog.UserID != claims.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only update your own blogs")
	}

	var req models.UpdateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Title != "" {
		blog.Title = req.Title
	}
	if req.Desc != "" {
		blog.Desc = req.Desc
	}
	if req.CoverURL != "" {
		blog.CoverURL = req.CoverURL
	}
	if req.Publish != nil {
		if *req.Publish && blog.PublishedAt == nil {
			now := time.Now()
			blog.PublishedAt = &now
		} else if !*req.Publish {
			blog.PublishedAt = nil
		}
	}

	if err := h.blogRepository.UpdateBlog(c.Request().Context(), blog.ID.Hex(), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"data": blog, "message": "Blog updated successfully"})
}

// DeleteBlog deletes a blog owned by the authenticated user
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	claims := getClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "You must be logged in")
	}

	blog, err := h.blogRepository.GetBlogBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}
	if blog.UserID != claims.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own blogs")
	}

	if err := h.blogRepository.DeleteBlog(c.Request().Context(), blog.ID.Hex()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{"id": blog.ID.Hex(), "message": "Blog deleted successfully"},
	})
}
