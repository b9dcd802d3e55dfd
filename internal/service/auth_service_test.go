package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"continuity-api/internal/model"
)

func TestAuthService_Login(t *testing.T) {
	sessions := newFakeSessionCache()
	svc := NewAuthService("admin", "secret", "test-jwt-key", sessions)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &model.LoginRequest{
		Username:       "admin",
		Password:       "secret",
		OrganizationID: "org1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "org1", resp.OrganizationID)

	stored, err := sessions.Get(ctx, resp.UserID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "org1", stored.OrganizationID)
}

func TestAuthService_LoginRejections(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-jwt-key", newFakeSessionCache())
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.LoginRequest
	}{
		{"wrong password", model.LoginRequest{Username: "admin", Password: "nope", OrganizationID: "org1"}},
		{"wrong username", model.LoginRequest{Username: "root", Password: "secret", OrganizationID: "org1"}},
		{"missing organization", model.LoginRequest{Username: "admin", Password: "secret"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &tt.req)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc := NewAuthService("admin", "secret", "test-jwt-key", newFakeSessionCache())

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Username:       "admin",
		Password:       "secret",
		OrganizationID: "org1",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)
	assert.Equal(t, "org1", claims.OrganizationID)

	_, err = svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// A token signed with another key is rejected
	other := NewAuthService("admin", "secret", "another-key", newFakeSessionCache())
	_, err = other.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Logout(t *testing.T) {
	sessions := newFakeSessionCache()
	svc := NewAuthService("admin", "secret", "test-jwt-key", sessions)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &model.LoginRequest{
		Username:       "admin",
		Password:       "secret",
		OrganizationID: "org1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.UserID))
	stored, err := sessions.Get(ctx, resp.UserID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}
