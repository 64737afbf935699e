package service

import (
	"context"
	"errors"
	"testing"

	"github.com/NunoCastro30/TechFlow/internal/identity/repository"
	"github.com/NunoCastro30/TechFlow/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

func setupUserTest(t *testing.T) *UserService {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewUserService(repository.NewUserRepository(db))
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc := setupUserTest(t)

	user, err := svc.Create(context.Background(), &CreateUserRequest{
		StaffNumber: 4711,
		FirstName:   "Ana",
		LastName:    "Silva",
		Password:    "correct-horse",
		Role:        "purchasing",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if user.PasswordHash == "correct-horse" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if !user.Active {
		t.Error("new user should be active")
	}
}

func TestCreateUserDuplicateStaffNumber(t *testing.T) {
	svc := setupUserTest(t)
	ctx := context.Background()

	req := &CreateUserRequest{
		StaffNumber: 1234,
		FirstName:   "Rui",
		LastName:    "Costa",
		Password:    "first-password",
		Role:        "production",
	}
	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Create(ctx, req); !errors.Is(err, ErrStaffNumberTaken) {
		t.Fatalf("expected ErrStaffNumberTaken, got %v", err)
	}
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	svc := setupUserTest(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, &CreateUserRequest{
		StaffNumber: 9001,
		FirstName:   "Marta",
		LastName:    "Lopes",
		Password:    "old-password",
		Role:        "maintenance",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "wrong", "new-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "old-password", "new-password"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	updated, _ := svc.Get(ctx, user.ID)
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-password")); err != nil {
		t.Errorf("new password does not verify: %v", err)
	}
}

func TestUpdateUserPartialFields(t *testing.T) {
	svc := setupUserTest(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, &CreateUserRequest{
		StaffNumber: 3210,
		FirstName:   "Joao",
		LastName:    "Pereira",
		Password:    "some-password",
		Role:        "production",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	role := "manager"
	inactive := false
	updated, err := svc.Update(ctx, user.ID, &UpdateUserRequest{Role: &role, Active: &inactive})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Role != "manager" || updated.Active {
		t.Errorf("update not applied: role=%q active=%v", updated.Role, updated.Active)
	}
	if updated.FirstName != "Joao" {
		t.Errorf("untouched field changed: first_name=%q", updated.FirstName)
	}
}
