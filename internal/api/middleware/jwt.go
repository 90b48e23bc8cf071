package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Claims are the JWT claims carried by an access token. UserID is the hex
// form of the Mongo ObjectID.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTMiddleware validates bearer tokens and issues new ones.
type JWTMiddleware struct {
	secret []byte
	logger *logrus.Logger
}

// NewJWTMiddleware creates a JWT middleware with the signing secret.
func NewJWTMiddleware(secret string, logger *logrus.Logger) *JWTMiddleware {
	return &JWTMiddleware{
		secret: []byte(secret),
		logger: logger,
	}
}

// Auth rejects requests without a valid bearer token and stores the caller
// identity in the request context.
func (m *JWTMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.ParseToken(parts[1])
		if err != nil {
			m.logger.Warnf("Invalid token: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// ParseToken validates a signed token and returns its claims.
func (m *JWTMiddleware) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// GenerateToken issues a signed access token for the user.
func (m *JWTMiddleware) GenerateToken(userID primitive.ObjectID, email string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID.Hex(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		m.logger.Errorf("Failed to sign token: %v", err)
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(c *gin.Context) (primitive.ObjectID, error) {
	value, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID, fmt.Errorf("user_id not found in context")
	}

	id, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("invalid user_id type")
	}

	return id, nil
}
