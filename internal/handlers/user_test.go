package handlers

import (
	"net/http"
	"testing"

	"github.com/mehrab-dev/blogstack/backend/internal/models"
)

func TestUpdateProfile_ChangesNameAndEmail(t *testing.T) {
	users := newFakeUserRepo()
	handler := NewUserHandler(users)
	user := users.add("alice", models.RoleReader, models.StatusActive)

	body := map[string]string{"name": "alicia", "email": "alicia@example.com"}
	c, rec := newTestContext(t, http.MethodPut, "/profile", body, claimsFor(user))

	if err := handler.UpdateProfile(c); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	stored, _ := users.GetUserByID(user.ID)
	if stored.Name != "alicia" || stored.Email != "alicia@example.com" {
		t.Fatalf("profile not updated: %+v", stored)
	}
}

func TestUpdateProfile_TakenEmailConflict(t *testing.T) {
	users := newFakeUserRepo()
	handler := NewUserHandler(users)
	alice := users.add("alice", models.RoleReader, models.StatusActive)
	users.add("bob", models.RoleReader, models.StatusActive)

	body := map[string]string{"email": "bob@example.com"}
	c, _ := newTestContext(t, http.MethodPut, "/profile", body, claimsFor(alice))

	err := handler.UpdateProfile(c)
	if got := httpStatus(t, err); got != http.StatusConflict {
		t.Fatalf("expected 409 for taken email, got %d", got)
	}
}

func TestGetProfile_ReturnsOwnUser(t *testing.T) {
	users := newFakeUserRepo()
	handler := NewUserHandler(users)
	user := users.add("alice", models.RoleReader, models.StatusActive)

	c, rec := newTestContext(t, http.MethodGet, "/profile", nil, claimsFor(user))

	if err := handler.GetProfile(c); err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
