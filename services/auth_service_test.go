package services

import (
	"testing"
	"time"

	"unicampus/models"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret", time.Hour)

	user, err := svc.Register("", &RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret-password",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != models.RoleStudent {
		t.Errorf("self-registration must yield a student, got %q", user.Role)
	}
	if user.Password == "s3cret-password" {
		t.Error("password must be stored hashed")
	}

	resp, err := svc.Login(&LoginRequest{Email: "alice@example.com", Password: "s3cret-password"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a signed token")
	}
	if resp.User.ID != user.ID {
		t.Errorf("expected user %d, got %d", user.ID, resp.User.ID)
	}

	_, err = svc.Login(&LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assertKind(t, err, KindForbidden)

	_, err = svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assertKind(t, err, KindForbidden)
}

func TestRegisterRoleGate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret", time.Hour)

	_, err := svc.Register("", &RegisterRequest{
		Name:     "Mallory",
		Email:    "mallory@example.com",
		Password: "s3cret-password",
		Role:     models.RoleProfessor,
	})
	assertKind(t, err, KindForbidden)

	professor, err := svc.Register(models.RoleAdmin, &RegisterRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "s3cret-password",
		Role:     models.RoleProfessor,
	})
	if err != nil {
		t.Fatalf("Register as admin: %v", err)
	}
	if professor.Role != models.RoleProfessor {
		t.Errorf("expected professor role, got %q", professor.Role)
	}

	_, err = svc.Register("", &RegisterRequest{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: "s3cret-password",
		Role:     "dean",
	})
	assertKind(t, err, KindInvalid)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, "test-secret", time.Hour)

	req := &RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "s3cret-password"}
	if _, err := svc.Register("", req); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register("", req)
	assertKind(t, err, KindInvalid)
}
