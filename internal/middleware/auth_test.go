package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/handlers"
	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/services"
	"github.com/gamemates/server/internal/testutil"
)

type stubAuthService struct {
	validateFunc func(ctx context.Context, token string) (*models.User, error)
}

func (s *stubAuthService) HashPassword(password string) (string, error) { return password, nil }
func (s *stubAuthService) VerifyPassword(hash, password string) bool    { return hash == password }
func (s *stubAuthService) GenerateSessionToken() (string, string, error) {
	return "token", "hash", nil
}
func (s *stubAuthService) CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	return "token", nil
}
func (s *stubAuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	if s.validateFunc != nil {
		return s.validateFunc(ctx, token)
	}
	return nil, services.ErrSessionNotFound
}
func (s *stubAuthService) DeleteSession(ctx context.Context, token string) error { return nil }
func (s *stubAuthService) DeleteAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func TestAuthenticate(t *testing.T) {
	alice := &models.User{ID: uuid.New(), Username: "alice"}

	tests := []struct {
		name         string
		cookie       *http.Cookie
		validateFunc func(ctx context.Context, token string) (*models.User, error)
		wantUser     bool
	}{
		{
			name:     "no cookie",
			wantUser: false,
		},
		{
			name:     "empty cookie value",
			cookie:   &http.Cookie{Name: "session_token", Value: ""},
			wantUser: false,
		},
		{
			name:   "valid session",
			cookie: &http.Cookie{Name: "session_token", Value: "good-token"},
			validateFunc: func(ctx context.Context, token string) (*models.User, error) {
				if token != "good-token" {
					t.Errorf("expected cookie value passed through, got %q", token)
				}
				return alice, nil
			},
			wantUser: true,
		},
		{
			name:   "invalid session continues anonymously",
			cookie: &http.Cookie{Name: "session_token", Value: "stale-token"},
			validateFunc: func(ctx context.Context, token string) (*models.User, error) {
				return nil, services.ErrSessionExpired
			},
			wantUser: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(&stubAuthService{validateFunc: tt.validateFunc})

			var gotUser *models.User
			handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = handlers.GetUserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			testutil.AssertStatusCode(t, rr, http.StatusOK)
			if tt.wantUser && (gotUser == nil || gotUser.ID != alice.ID) {
				t.Error("expected user in request context")
			}
			if !tt.wantUser && gotUser != nil {
				t.Error("expected anonymous request")
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	m := NewAuthMiddleware(&stubAuthService{})
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		ctx := handlers.SetUserInContext(req.Context(), &models.User{ID: uuid.New()})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req.WithContext(ctx))

		testutil.AssertStatusCode(t, rr, http.StatusOK)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		testutil.AssertStatusCode(t, rr, http.StatusUnauthorized)
		testutil.AssertEqual(t, "application/json", rr.Header().Get("Content-Type"), "content type")
		testutil.AssertEqual(t, `{"success":false,"error":"Authentication required"}`, rr.Body.String(), "error body")
	})
}
