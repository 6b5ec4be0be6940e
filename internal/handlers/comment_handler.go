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

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	blogRepository         repositories.BlogRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	blogRepo repositories.BlogRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		blogRepository:         blogRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/blogs/:slug/comments", h.CreateComment)
	g.POST("/blogs/:slug/comments/:id/reply", h.CreateReply)
	g.DELETE("/blogs/:slug/comments/:id", h.DeleteComment)
}

// CreateComment creates a top-level comment on a published blog
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "You must be logged in")
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Authenticated user not found in database")
	}
	if user.IsBanned() {
		return echo.NewHTTPError(http.StatusForbidden, "Your account is banned")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	blog, err := h.blogRepository.GetBlogBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}
	if !blog.IsPublished() {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}

	comment, err := models.NewComment(req.Desc, user.ID, blog.ID.Hex())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment description is required")
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifyCommented(blog, comment, user)

	return c.JSON(http.StatusCreated, echo.Map{"data": comment, "message": "Comment created successfully"})
}

// CreateReply creates a reply to a normal comment of the same blog
func (h *CommentHandler) CreateReply(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "You must be logged in")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	blog, err := h.blogRepository.GetBlogBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
	}

	parent, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	reply, err := models.NewReply(req.Desc, userID, blog.ID.Hex(), parent)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptyDescription):
			return echo.NewHTTPError(http.StatusBadRequest, "Reply description is required")
		case errors.Is(err, models.ErrReplyToReply):
			return echo.NewHTTPError(http.StatusBadRequest, "You can only reply to normal comments, not to replies")
		case errors.Is(err, models.ErrReplyWrongBlog):
			return echo.NewHTTPError(http.StatusBadRequest, "Comment does not belong to this blog")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	if err := h.commentRepository.CreateComment(reply); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifyReplied(blog, parent, reply)

	return c.JSON(http.StatusCreated, echo.Map{"data": reply, "message": "Reply created successfully"})
}

// DeleteComment deletes an owned comment; a normal comment takes its
// replies with it, replies first so no reply is left pointing at a
// deleted parent
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "You must be logged in")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if comment.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own comments")
	}

	if comment.Type == models.CommentTypeNormal {
		if err := h.commentRepository.DeleteRepliesByParentID(comment.ID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if err := h.commentRepository.DeleteComment(comment.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": echo.Map{"id": comment.ID, "message": "Comment deleted successfully"},
	})
}

func (h *CommentHandler) notifyCommented(blog *models.Blog, comment *models.Comment, actor *models.User) {
	if h.notificationRepository == nil || blog.UserID == actor.ID {
		return
	}
	commentID := comment.ID
	h.notificationRepository.CreateNotification(&models.Notification{
		Type:      "comment",
		UserID:    blog.UserID,
		ActorID:   actor.ID,
		BlogID:    blog.ID.Hex(),
		CommentID: &commentID,
		Message:   actor.Name + " commented on your blog",
	})
}

func (h *CommentHandler) notifyReplied(blog *models.Blog, parent *models.Comment, reply *models.Comment) {
	if h.notificationRepository == nil || parent.UserID == reply.UserID {
		return
	}
	actor, err := h.userRepository.GetUserByID(reply.UserID)
	if err != nil {
		return
	}
	replyID := reply.ID
	h.notificationRepository.CreateNotification(&models.Notification{
		Type:      "reply",
		UserID:    parent.UserID,
		ActorID:   actor.ID,
		BlogID:    blog.ID.Hex(),
		CommentID: &replyID,
		Message:   actor.Name + " replied to your comment",
	})
}
