package status

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/auth-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-api/internal/lib/sl"
	"github.com/magabrotheeeer/auth-api/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SetActive(ctx context.Context, actor *models.User, userUID string, active bool) (*models.User, error) {
	args := m.Called(ctx, actor, userUID, active)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func TestStatusHandler_ServeHTTP(t *testing.T) {
	admin := &models.User{UUID: "admin", Role: models.RoleAdmin, IsActive: true}
	target := &models.User{UUID: "u1", Email: "a@b.com", IsActive: false}

	tests := []struct {
		name       string
		body       string
		withActor  bool
		callsSvc   bool
		mockUser   *models.User
		mockErr    error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "deactivate",
			body:       `{"isActive":false}`,
			withActor:  true,
			callsSvc:   true,
			mockUser:   target,
			wantStatus: http.StatusOK,
			wantBody:   `"isActive":false`,
		},
		{
			name:       "missing field",
			body:       `{}`,
			withActor:  true,
			wantStatus: http.StatusBadRequest,
			wantBody:   "All fields are required",
		},
		{
			name:       "invalid json",
			body:       `{"isActive":`,
			withActor:  true,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid request body",
		},
		{
			name:       "no actor",
			body:       `{"isActive":false}`,
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Access token required",
		},
		{
			name:       "forbidden",
			body:       `{"isActive":false}`,
			withActor:  true,
			callsSvc:   true,
			mockErr:    models.ErrForbidden,
			wantStatus: http.StatusForbidden,
			wantBody:   "Insufficient permissions",
		},
		{
			name:       "not found",
			body:       `{"isActive":false}`,
			withActor:  true,
			callsSvc:   true,
			mockErr:    models.ErrUserNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   "User not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callsSvc {
				svc.On("SetActive", mock.Anything, admin, "u1", false).Return(tt.mockUser, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPatch, "/users/u1/status", bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "u1")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.withActor {
				ctx = middlewarectx.WithUser(ctx, admin)
			}
			rec := httptest.NewRecorder()

			New(sl.Discard(), svc).ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
