package read

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Get(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestReadHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		mockUser   *models.User
		mockErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "found",
			mockUser:   &models.User{UUID: "u1", Email: "a@b.com", PasswordHash: "$2a$12$x"},
			wantStatus: http.StatusOK,
			wantBody:   `"email":"a@b.com"`,
		},
		{
			name:       "not found",
			mockErr:    fmt.Errorf("users.Get: %w", models.ErrUserNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   "User not found",
		},
		{
			name:       "internal error",
			mockErr:    errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("Get", mock.Anything, "u1").Return(tt.mockUser, tt.mockErr).Once()

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/users/u1", nil), "id", "u1")
			rec := httptest.NewRecorder()

			New(sl.Discard(), svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "$2a$")
			svc.AssertExpectations(t)
		})
	}
}
