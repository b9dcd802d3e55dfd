package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims are the JWT claims for an authenticated assessment user
type UserClaims struct {
	UserID         string `json:"userId"`
	OrganizationID string `json:"organizationId"`
	jwt.RegisteredClaims
}

// LoginRequest is the login request body
type LoginRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	OrganizationID string `json:"organizationId"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	Token          string `json:"token"`
	UserID         string `json:"userId"`
	OrganizationID string `json:"organizationId"`
}

// Session tracks an active login for logout bookkeeping
type Session struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	OrganizationID string    `json:"organizationId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ProgressSnapshot is the cached/broadcast progress view of an
// in-progress assessment.
type ProgressSnapshot struct {
	AssessmentID string         `json:"assessmentId"`
	Overall      int            `json:"overall"`
	ByCategory   map[string]int `json:"byCategory"`
	Revision     int64          `json:"revision"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
