package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
	"github.com/magabrotheeeer/auth-api/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, in auth.RegisterInput) (*models.User, string, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.String(1), args.Error(2)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	registered := &models.User{
		UUID:         "4f1d8a8e-2d7c-4c1b-9a4e-0e6f3b7d9a10",
		Email:        "a@b.com",
		PasswordHash: "$2a$12$secret",
		FirstName:    "A",
		LastName:     "B",
		IsActive:     true,
		Role:         models.RoleUser,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	validInput := auth.RegisterInput{Email: "a@b.com", Password: "Abcdef1!", FirstName: "A", LastName: "B"}

	tests := []struct {
		name        string
		body        string
		callsSvc    bool
		mockUser    *models.User
		mockToken   string
		mockErr     error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "success",
			body:        `{"email":"a@b.com","password":"Abcdef1!","firstName":"A","lastName":"B"}`,
			callsSvc:    true,
			mockUser:    registered,
			mockToken:   "tok",
			wantStatus:  http.StatusCreated,
			wantMessage: "User registered successfully",
		},
		{
			name:        "privileged fields are ignored",
			body:        `{"email":"a@b.com","password":"Abcdef1!","firstName":"A","lastName":"B","role":"admin","isSuperuser":true}`,
			callsSvc:    true,
			mockUser:    registered,
			mockToken:   "tok",
			wantStatus:  http.StatusCreated,
			wantMessage: "User registered successfully",
		},
		{
			name:        "invalid json body",
			body:        "not a json",
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid request body",
		},
		{
			name:        "duplicate email",
			body:        `{"email":"a@b.com","password":"Abcdef1!","firstName":"A","lastName":"B"}`,
			callsSvc:    true,
			mockErr:     fmt.Errorf("auth.Register: %w", models.ErrUserExists),
			wantStatus:  http.StatusConflict,
			wantMessage: "User with this email already exists",
		},
		{
			name:        "weak password",
			body:        `{"email":"a@b.com","password":"Abcdef1!","firstName":"A","lastName":"B"}`,
			callsSvc:    true,
			mockErr:     &models.WeakPasswordError{Requirement: "contain at least one special character"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Password must contain at least one special character",
		},
		{
			name:        "internal error",
			body:        `{"email":"a@b.com","password":"Abcdef1!","firstName":"A","lastName":"B"}`,
			callsSvc:    true,
			mockErr:     errors.New("db down"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callsSvc {
				svc.On("Register", mock.Anything, validInput).Return(tt.mockUser, tt.mockToken, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			New(sl.Discard(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotContains(t, rec.Body.String(), "password")
			assert.NotContains(t, rec.Body.String(), "$2a$")

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantMessage, got["message"])

			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "OK", got["status"])
				data := got["data"].(map[string]any)
				assert.Equal(t, tt.mockToken, data["token"])
				user := data["user"].(map[string]any)
				assert.Equal(t, "a@b.com", user["email"])
				assert.Equal(t, registered.UUID, user["id"])
			} else {
				assert.Equal(t, "Error", got["status"])
				assert.Nil(t, got["data"])
			}
			svc.AssertExpectations(t)
		})
	}
}
