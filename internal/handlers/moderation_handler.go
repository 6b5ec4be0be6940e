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

// ModerationHandler handles admin moderation of user accounts
type ModerationHandler struct {
	userRepository         repositories.UserRepository
	reactionRepository     repositories.ReactionRepository
	commentRepository      repositories.CommentRepository
	notificationRepository repositories.NotificationRepository
	blogRepository         repositories.BlogRepository
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(
	userRepo repositories.UserRepository,
	reactionRepo repositories.ReactionRepository,
	commentRepo repositories.CommentRepository,
	notifRepo repositories.NotificationRepository,
	blogRepo repositories.BlogRepository,
) *ModerationHandler {
	return &ModerationHandler{
		userRepository:         userRepo,
		reactionRepository:     reactionRepo,
		commentRepository:      commentRepo,
		notificationRepository: notifRepo,
		blogRepository:         blogRepo,
	}
}

// RegisterModerationRoutes registers admin-only user moderation routes
func (h *ModerationHandler) RegisterModerationRoutes(g *echo.Group) {
	g.PATCH("/users/:id", h.ToggleBan)
	g.DELETE("/users/:id", h.DeleteUser)
}

// resolveTarget loads the target user and applies the shared moderation
// guards: author accounts and the actor's own account are off limits
func (h *ModerationHandler) resolveTarget(c echo.Context) (*models.User, error) {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "You must be logged in")
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	target, err := h.userRepository.GetUserByID(uint(targetID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if target.Role == models.RoleAuthor {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You cannot modify author accounts")
	}
	if target.ID == actorID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You cannot modify your own account")
	}

	return target, nil
}

// ToggleBan flips the target user's account status between active and banned
func (h *ModerationHandler) ToggleBan(c echo.Context) error {
	target, err := h.resolveTarget(c)
	if err != nil {
		return err
	}

	newStatus := models.StatusBanned
	action := "banned"
	if target.AccountStatus == models.StatusBanned {
		newStatus = models.StatusActive
		action = "unbanned"
	}

	target.AccountStatus = newStatus
	if err := h.userRepository.UpdateUser(target); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":    target,
		"message": "User " + action + " successfully",
	})
}

// DeleteUser removes the target user and everything they own. Dependent
// records go first (reactions, comments, notifications), then the user's
// blogs, then the user itself. There is no rollback on partial failure.
func (h *ModerationHandler) DeleteUser(c echo.Context) error {
	target, err := h.resolveTarget(c)
	if err != nil {
		return err
	}

	if err := h.reactionRepository.DeleteReactionsByUserID(target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.commentRepository.DeleteCommentsByUserID(target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.notificationRepository.DeleteByUserID(target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.blogRepository.DeleteBlogsByUserID(c.Request().Context(), target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.userRepository.DeleteUser(target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{
			"id":      target.ID,
			"message": "User and all associated data deleted successfully",
		},
	})
}
