package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	user := &models.User{
		UUID:         "4f1d8a8e-2d7c-4c1b-9a4e-0e6f3b7d9a10",
		Email:        "a@b.com",
		PasswordHash: "$2a$12$secret",
		IsActive:     true,
		Role:         models.RoleUser,
	}

	tests := []struct {
		name        string
		requestBody any
		mockUser    *models.User
		mockToken   string
		mockErr     error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "valid login",
			requestBody: Request{Email: "a@b.com", Password: "Abcdef1!"},
			mockUser:    user,
			mockToken:   "tok",
			wantStatus:  http.StatusOK,
			wantMessage: "Login successful",
		},
		{
			name:        "invalid json body",
			requestBody: "not a json",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request body",
		},
		{
			name:        "empty fields",
			requestBody: Request{Email: "", Password: ""},
			mockErr:     models.ErrMissingCredentials,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid email or password",
		},
		{
			name:        "unknown email",
			requestBody: Request{Email: "nobody@b.com", Password: "Abcdef1!"},
			mockErr:     fmt.Errorf("auth.Login: %w", models.ErrInvalidCredentials),
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid email or password",
		},
		{
			name:        "deactivated account",
			requestBody: Request{Email: "a@b.com", Password: "Abcdef1!"},
			mockErr:     models.ErrAccountDeactivated,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Account is deactivated",
		},
		{
			name:        "internal error",
			requestBody: Request{Email: "a@b.com", Password: "Abcdef1!"},
			mockErr:     errors.New("db down"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			case Request:
				svc.On("Login", mock.Anything, v.Email, v.Password).Return(tt.mockUser, tt.mockToken, tt.mockErr).Once()
				var err error
				bodyBytes, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			New(sl.Discard(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotContains(t, rec.Body.String(), "$2a$")

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantMessage, got["message"])

			if tt.wantStatus == http.StatusOK {
				data := got["data"].(map[string]any)
				assert.Equal(t, "tok", data["token"])
				assert.Equal(t, user.UUID, data["user"].(map[string]any)["id"])
			} else {
				assert.Equal(t, "Error", got["status"])
				assert.Nil(t, got["data"])
			}
			svc.AssertExpectations(t)
		})
	}
}
