package handlers

import (
	"net/http"
	"testing"

	"github.com/mehrab-dev/blogstack/backend/internal/models"
	"gorm.io/gorm"
)

type moderationEnv struct {
	users         *fakeUserRepo
	blogs         *fakeBlogRepo
	comments      *fakeCommentRepo
	reactions     *fakeReactionRepo
	notifications *fakeNotificationRepo
	handler       *ModerationHandler
}

func newModerationEnv() *moderationEnv {
	env := &moderationEnv{
		users:         newFakeUserRepo(),
		blogs:         newFakeBlogRepo(),
		comments:      newFakeCommentRepo(),
		reactions:     newFakeReactionRepo(),
		notifications: newFakeNotificationRepo(),
	}
	env.handler = NewModerationHandler(env.users, env.reactions, env.comments, env.notifications, env.blogs)
	return env
}

func TestToggleBan_BansActiveUser(t *testing.T) {
	env := newModerationEnv()
	admin := env.users.add("admin", models.RoleAdmin, models.StatusActive)
	target := env.users.add("troll", models.RoleReader, models.StatusActive)

	c, rec := newTestContext(t, http.MethodPatch, "/users/"+itoa(target.ID), nil, claimsFor(admin))
	c.SetParamNames("id")
	c.SetParamValues(itoa(target.ID))

	if err := env.handler.ToggleBan(c); err != nil {
		t.Fatalf("toggle ban: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	stored, _ := env.users.GetUserByID(target.ID)
	if stored.AccountStatus != models.StatusBanned {
		t.Fatalf("expected banned, got %q", stored.AccountStatus)
	}
}

func TestToggleBan_UnbansBannedUser(t *testing.T) {
	env := newModerationEnv()
	admin := env.users.add("admin", models.RoleAdmin, models.StatusActive)
	target := env.users.add("troll", models.RoleReader, models.StatusBanned)

	c, _ := newTestContext(t, http.MethodPatch, "/users/"+itoa(target.ID), nil, claimsFor(admin))
	c.SetParamNames("id")
	c.SetParamValues(itoa(target.ID))

	if err := env.handler.ToggleBan(c); err != nil {
		t.Fatalf("toggle ban: %v", err)
	}

	stored, _ := env.users.GetUserByID(target.ID)
	if stored.AccountStatus != models.StatusActive {
		t.Fatalf("expected active, got %q", stored.AccountStatus)
	}
}

func TestToggleBan_AuthorTargetForbidden(t *testing.T) {
	env := newModerationEnv()
	admin := env.users.add("admin", models.RoleAdmin, models.StatusActive)
	target := env.users.add("writer", models.RoleAuthor, models.StatusActive)

	c, _ := newTestContext(t, http.MethodPatch, "/users/"+itoa(target.ID), nil, claimsFor(admin))
	c.SetParamNames("id")
	c.SetParamValues(itoa(target.ID))

	err := env.handler.ToggleBan(c)
	if got := httpStatus(t, err); got != http.StatusForbidden {
		t.Fatalf("expected 403 for author target, got %d", got)
	}

	stored, _ := env.users.GetUserByID(target.ID)
	if stored.AccountStatus != models.StatusActive {
		t.Fatal("author account must be untouched")
	}
}

func TestToggleBan_SelfTargetForbidden(t *testing.T) {
	env := newModerationEnv()
	admin := env.users.add("admin", models.RoleAdmin, models.StatusActive)

	c, _ := newTestContext(t, http.MethodPatch, "/users/"+itoa(admin.ID), nil, claimsFor(admin))
	c.SetParamNames("id")
	c.SetParamValues(itoa(admin.ID))

	err := env.handler.ToggleBan(c)
	if got := httpStatus(t, err); got != http.StatusForbidden {
		t.Fatalf("expected 403 for self target, got %d", got)
	}
}

func TestToggleBan_MissingTarget(t *testing.T) {
	env := newModerationEnv()
	admin := env.users.add("admin", models.RoleAdmin, models.StatusActive)

	c, _ := newTestContext(t, http.MethodPatch, "/users/99", nil, claimsFor(admin))
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := env.handler.ToggleBan(c)
	if got := httpStatus(t, err); got != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got)
	}
}

func TestDeleteUser_CascadesOwnRecordsOnly(t *testing.T) {
	env := newModerationEnv()
	admin := env.users.add("admin", models.RoleAdmin, models.StatusActive)
	target := env.users.add("troll", models.RoleReader, models.StatusActive)
	other := env.users.add("bystander", models.RoleReader, models.StatusActive)

	targetBlog := env.blogs.add("troll-post", "Troll Post", "en", target.ID, true)
	otherBlog := env.blogs.add("bystander-post", "Bystander Post", "en", other.ID, true)

	for _, owner := range []*models.User{target, other} {
		comment, _ := models.NewComment("hi", owner.ID, targetBlog.ID.Hex())
		env.comments.CreateComment(comment)
		env.reactions.CreateReaction(&models.Reaction{BlogID: otherBlog.ID.Hex(), UserID: owner.ID, Type: "like"})
		env.notifications.CreateNotification(&models.Notification{Type: "reaction", UserID: owner.ID, ActorID: admin.ID})
	}

	c, rec := newTestContext(t, http.MethodDelete, "/users/"+itoa(target.ID), nil, claimsFor(admin))
	c.SetParamNames("id")
	c.SetParamValues(itoa(target.ID))

	if err := env.handler.DeleteUser(c); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if _, err := env.users.GetUserByID(target.ID); err != gorm.ErrRecordNotFound {
		t.Fatal("target user must be gone")
	}
	if _, err := env.users.GetUserByID(other.ID); err != nil {
		t.Fatal("bystander must survive")
	}

	for _, comment := range env.comments.comments {
		if comment.UserID == target.ID {
			t.Fatal("target's comments must be gone")
		}
	}
	for _, reaction := range env.reactions.reactions {
		if reaction.UserID == target.ID {
			t.Fatal("target's reactions must be gone")
		}
	}
	for _, n := range env.notifications.notifications {
		if n.UserID == target.ID {
			t.Fatal("target's notifications must be gone")
		}
	}
	if _, err := env.blogs.GetBlogBySlug(nil, "troll-post"); err == nil {
		t.Fatal("target's blog must be gone")
	}
	if _, err := env.blogs.GetBlogBySlug(nil, "bystander-post"); err != nil {
		t.Fatal("bystander's blog must survive")
	}

	if len(env.comments.comments) != 1 {
		t.Fatalf("expected 1 surviving comment, got %d", len(env.comments.comments))
	}
	if len(env.reactions.reactions) != 1 {
		t.Fatalf("expected 1 surviving reaction, got %d", len(env.reactions.reactions))
	}
	if len(env.notifications.notifications) != 1 {
		t.Fatalf("expected 1 surviving notification, got %d", len(env.notifications.notifications))
	}
}

func TestDeleteUser_AuthorTargetForbidden(t *testing.T) {
	env := newModerationEnv()
	admin := env.users.add("admin", models.RoleAdmin, models.StatusActive)
	target := env.users.add("writer", models.RoleAuthor, models.StatusActive)
	env.blogs.add("writer-post", "Writer Post", "en", target.ID, true)

	c, _ := newTestContext(t, http.MethodDelete, "/users/"+itoa(target.ID), nil, claimsFor(admin))
	c.SetParamNames("id")
	c.SetParamValues(itoa(target.ID))

	err := env.handler.DeleteUser(c)
	if got := httpStatus(t, err); got != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", got)
	}
	if _, err := env.users.GetUserByID(target.ID); err != nil {
		t.Fatal("author must survive")
	}
	if _, err := env.blogs.GetBlogBySlug(nil, "writer-post"); err != nil {
		t.Fatal("author's blog must survive")
	}
}
