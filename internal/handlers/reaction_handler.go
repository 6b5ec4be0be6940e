package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mehrab-dev/blogstack/backend/internal/models"
	"github.com/mehrab-dev/blogstack/backend/internal/repositories"
	"gorm.io/gorm"
)

// ReactionHandler handles HTTP requests related to blog reactions
type ReactionHandler struct {
	reactionRepository     repositories.ReactionRepository
	blogRepository         repositories.BlogRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(
	reactionRepo repositories.ReactionRepository,
	blogRepo repositories.BlogRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *ReactionHandler {
	return &ReactionHandler{
		reactionRepository:     reactionRepo,
		blogRepository:         blogRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterReactionRoutes registers reaction-related routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/blogs/:slug/reactions", h.CreateReaction)
	g.PATCH("/blogs/:slug/reactions/:id", h.UpdateReaction)
	g.DELETE("/blogs/:slug/reactions/:id", h.DeleteReaction)
}

// CreateReaction reacts to a blog; a user gets one reaction per blog
func (h *ReactionHandler) CreateReaction(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "You must be logged in")
	}

	var req models.CreateReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	blog, err := h.blogRepository.GetBlogBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}
	blogID := blog.ID.Hex()

	hasReacted, err := h.reactionRepository.HasUserReacted(blogID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hasReacted {
		return echo.NewHTTPError(http.StatusConflict, "You have already reacted to this blog")
	}

	reaction := &models.Reaction{
		BlogID: blogID,
		UserID: userID,
		Type:   req.Type,
	}

	// The unique index on (user, blog) backs up the check above; a lost
	// race fails here instead of inserting a duplicate.
	if err := h.reactionRepository.CreateReaction(reaction); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "You have already reacted to this blog")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifyReacted(blog, reaction)

	return c.JSON(http.StatusCreated, echo.Map{"data": reaction, "message": "Reaction created successfully"})
}

// UpdateReaction changes the type of an owned reaction
func (h *ReactionHandler) UpdateReaction(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "You must be logged in")
	}

	reactionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid reaction ID")
	}

	var req models.UpdateReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	blog, err := h.blogRepository.GetBlogBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}

	reaction, err := h.reactionRepository.GetUserReaction(uint(reactionID), blog.ID.Hex(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reaction not found")
	}

	reaction.Type = req.Type
	if err := h.reactionRepository.UpdateReaction(reaction); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"data": reaction, "message": "Reaction updated successfully"})
}

// DeleteReaction removes an owned reaction
func (h *ReactionHandler) DeleteReaction(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "You must be logged in")
	}

	reactionID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid reaction ID")
	}

	blog, err := h.blogRepository.GetBlogBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}

	reaction, err := h.reactionRepository.GetUserReaction(uint(reactionID), blog.ID.Hex(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reaction not found")
	}

	if err := h.reactionRepository.DeleteReaction(reaction.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{"id": reaction.ID, "message": "Reaction deleted successfully"},
	})
}

func (h *ReactionHandler) notifyReacted(blog *models.Blog, reaction *models.Reaction) {
	if h.notificationRepository == nil || blog.UserID == reaction.UserID {
		return
	}
	actor, err := h.userRepository.GetUserByID(reaction.UserID)
	if err != nil {
		return
	}
	h.notificationRepository.CreateNotification(&models.Notification{
		Type:    "reaction",
		UserID:  blog.UserID,
		ActorID: actor.ID,
		BlogID:  blog.ID.Hex(),
		Message: actor.Name + " reacted to your blog",
	})
}
