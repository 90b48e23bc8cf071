package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func registerTestUser(t *testing.T, svc *AuthService, email, studentID string) primitive.ObjectID {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		FullName:  "Ada Obi",
		Email:     email,
		StudentID: studentID,
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return user.ID
}

func TestRegisterAndAuthenticate(t *testing.T) {
	storage := newMockStorage()
	svc := NewAuthService(storage, newTestLogger())

	registerTestUser(t, svc, "ada@uni.edu.ng", "U2021/001")

	// Login by email.
	user, err := svc.Authenticate(context.Background(), "ada@uni.edu.ng", "secret123")
	if err != nil {
		t.Fatalf("Authenticate by email failed: %v", err)
	}
	if user.LastLogin == nil {
		t.Error("expected last login to be stamped")
	}

	// Login by student ID.
	if _, err := svc.Authenticate(context.Background(), "U2021/001", "secret123"); err != nil {
		t.Fatalf("Authenticate by student ID failed: %v", err)
	}

	// Wrong password.
	if _, err := svc.Authenticate(context.Background(), "ada@uni.edu.ng", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	storage := newMockStorage()
	svc := NewAuthService(storage, newTestLogger())

	registerTestUser(t, svc, "ada@uni.edu.ng", "U2021/001")

	_, err := svc.Register(context.Background(), RegisterInput{
		FullName:  "Other Student",
		Email:     "ada@uni.edu.ng",
		StudentID: "U2021/002",
		Password:  "secret123",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	storage := newMockStorage()
	svc := NewAuthService(storage, newTestLogger())

	user, err := svc.Register(context.Background(), RegisterInput{
		FullName:  "Ada Obi",
		Email:     "  Ada@Uni.Edu.Ng ",
		StudentID: "U2021/001",
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "ada@uni.edu.ng" {
		t.Errorf("expected normalized email, got %s", user.Email)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestRegisterShortPassword(t *testing.T) {
	storage := newMockStorage()
	svc := NewAuthService(storage, newTestLogger())

	_, err := svc.Register(context.Background(), RegisterInput{
		FullName:  "Ada Obi",
		Email:     "ada@uni.edu.ng",
		StudentID: "U2021/001",
		Password:  "12345",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	storage := newMockStorage()
	svc := NewAuthService(storage, newTestLogger())
	userID := registerTestUser(t, svc, "ada@uni.edu.ng", "U2021/001")

	if err := svc.ChangePassword(context.Background(), userID, "wrong", "newsecret"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for wrong current password, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), userID, "secret123", "newsecret"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "ada@uni.edu.ng", "newsecret"); err != nil {
		t.Fatalf("Authenticate with new password failed: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	storage := newMockStorage()
	svc := NewAuthService(storage, newTestLogger())
	userID := registerTestUser(t, svc, "ada@uni.edu.ng", "U2021/001")

	department := "Computer Science"
	user, err := svc.UpdateProfile(context.Background(), userID, ProfileUpdate{Department: &department})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Department != "Computer Science" {
		t.Errorf("expected department update, got %s", user.Department)
	}
	// Untouched fields keep their values.
	if user.FullName != "Ada Obi" {
		t.Errorf("full name changed unexpectedly: %s", user.FullName)
	}
}
