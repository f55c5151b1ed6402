package profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/auth-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

func TestProfileHandler_ReturnsUserFromContext(t *testing.T) {
	user := &models.User{
		UUID:         "4f1d8a8e-2d7c-4c1b-9a4e-0e6f3b7d9a10",
		Email:        "a@b.com",
		PasswordHash: "$2a$12$secret",
		IsActive:     true,
		Role:         models.RoleUser,
	}
	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req = req.WithContext(middlewarectx.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()

	New(sl.Discard()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "$2a$")

	var got struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Data    Data   `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "OK", got.Status)
	assert.Equal(t, "Profile retrieved successfully", got.Message)
	assert.Equal(t, user.UUID, got.Data.User.ID)
	assert.Equal(t, "a@b.com", got.Data.User.Email)
}

func TestProfileHandler_NoUser(t *testing.T) {
	rec := httptest.NewRecorder()

	New(sl.Discard()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/profile", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access token required")
}
