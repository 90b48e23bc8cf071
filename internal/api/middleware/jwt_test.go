package middleware

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestMiddleware(secret string) *JWTMiddleware {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewJWTMiddleware(secret, log)
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestMiddleware("test-secret")
	userID := primitive.NewObjectID()

	token, err := m.GenerateToken(userID, "ada@uni.edu.ng", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.UserID != userID.Hex() {
		t.Errorf("expected user %s, got %s", userID.Hex(), claims.UserID)
	}
	if claims.Email != "ada@uni.edu.ng" {
		t.Errorf("unexpected email claim: %s", claims.Email)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	m := newTestMiddleware("test-secret")

	token, err := m.GenerateToken(primitive.NewObjectID(), "ada@uni.edu.ng", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := m.ParseToken(token); err == nil {
		t.Fatal("expected an error for an expired token")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := newTestMiddleware("secret-a").GenerateToken(primitive.NewObjectID(), "ada@uni.edu.ng", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := newTestMiddleware("secret-b").ParseToken(token); err == nil {
		t.Fatal("expected an error for a token signed with another secret")
	}
}
