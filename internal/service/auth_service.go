package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"continuity-api/internal/cache"
	"continuity-api/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles user authentication for assessment sessions
type AuthService struct {
	username     string
	password     string
	jwtSecret    []byte
	sessionCache cache.SessionCache
}

// NewAuthService creates a new auth service
func NewAuthService(username, password, jwtSecret string, sessionCache cache.SessionCache) *AuthService {
	return &AuthService{
		username:     username,
		password:     password,
		jwtSecret:    []byte(jwtSecret),
		sessionCache: sessionCache,
	}
}

// Login validates credentials and returns an organization-scoped token
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if req.Username != s.username || req.Password != s.password {
		return nil, ErrInvalidCredentials
	}
	if req.OrganizationID == "" {
		return nil, ErrInvalidCredentials
	}

	userID := "user_" + uuid.New().String()[:8]

	claims := &model.UserClaims{
		UserID:         userID,
		OrganizationID: req.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	session := &model.Session{
		ID:             userID,
		UserID:         userID,
		OrganizationID: req.OrganizationID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:          tokenString,
		UserID:         userID,
		OrganizationID: req.OrganizationID,
	}, nil
}

// Logout drops the stored session
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.sessionCache.Delete(ctx, userID)
}

// ValidateToken validates a user JWT and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
