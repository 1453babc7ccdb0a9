package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medical-appointment-booking/config"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/mocks"
	"medical-appointment-booking/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	middleware *AuthMiddleware
	jwtService *jwt.JWTService
	sessions   *jwt.SessionStore
	redis      *miniredis.Miniredis
}

func newAuthFixture(t *testing.T) *authFixture {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: 15 * time.Minute, RefreshExpiry: time.Hour})
	sessions := jwt.NewSessionStore(client)
	return &authFixture{
		middleware: NewAuthMiddleware(jwtService, sessions, mocks.NewLogger()),
		jwtService: jwtService,
		sessions:   sessions,
		redis:      mr,
	}
}

// login issues an access token and records it as live.
func (f *authFixture) login(t *testing.T, userID uuid.UUID, roleID int) string {
	t.Helper()
	access, accessID, err := f.jwtService.GenerateAccessToken(userID, "user@example.com", roleID)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Save(context.Background(), userID, accessID, 15*time.Minute, "refresh", time.Hour))
	return access
}

func echoActor(t *testing.T, wantUser uuid.UUID, wantRole int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		require.True(t, ok)
		roleID, ok := GetRoleIDFromContext(r.Context())
		require.True(t, ok)
		_, ok = GetTokenIDFromContext(r.Context())
		require.True(t, ok)

		assert.Equal(t, wantUser, userID)
		assert.Equal(t, wantRole, roleID)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate_AcceptsLiveToken(t *testing.T) {
	f := newAuthFixture(t)
	userID := uuid.New()
	token := f.login(t, userID, entity.RoleIDPatient)

	for _, scheme := range []string{"Bearer", "bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/me/appointments", nil)
		req.Header.Set("Authorization", scheme+" "+token)
		rec := httptest.NewRecorder()

		f.middleware.Authenticate(echoActor(t, userID, entity.RoleIDPatient)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	f := newAuthFixture(t)
	userID := uuid.New()
	live := f.login(t, userID, entity.RoleIDDoctor)

	revoked, revokedID, err := f.jwtService.GenerateAccessToken(userID, "user@example.com", entity.RoleIDDoctor)
	require.NoError(t, err)
	require.NoError(t, f.sessions.RevokeAccess(context.Background(), userID, revokedID))

	refresh, _, err := f.jwtService.GenerateRefreshToken(userID, "user@example.com", entity.RoleIDDoctor)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + live},
		{"extra fields", "Bearer " + live + " extra"},
		{"garbage token", "Bearer not-a-jwt"},
		{"refresh token", "Bearer " + refresh},
		{"revoked token", "Bearer " + revoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			})

			f.middleware.Authenticate(next).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthenticate_SessionStoreDown(t *testing.T) {
	f := newAuthFixture(t)
	token := f.login(t, uuid.New(), entity.RoleIDAdmin)
	f.redis.Close()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	f.middleware.Authenticate(http.NotFoundHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireActor(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name   string
		ctx    context.Context
		guard  func(http.Handler) http.Handler
		status int
	}{
		{"patient books", WithActor(context.Background(), uuid.New(), entity.RoleIDPatient), RequirePatientOrAdmin, http.StatusNoContent},
		{"admin books", WithActor(context.Background(), uuid.New(), entity.RoleIDAdmin), RequirePatientOrAdmin, http.StatusNoContent},
		{"doctor cannot book", WithActor(context.Background(), uuid.New(), entity.RoleIDDoctor), RequirePatientOrAdmin, http.StatusForbidden},
		{"patient outside admin", WithActor(context.Background(), uuid.New(), entity.RoleIDPatient), RequireAdmin, http.StatusForbidden},
		{"no actor", context.Background(), RequireDoctor, http.StatusUnauthorized},
		{"unknown role id", WithActor(context.Background(), uuid.New(), 42), RequireActor(entity.ActorUnknown), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tt.ctx)
			rec := httptest.NewRecorder()
			tt.guard(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	m := NewLoggingMiddleware(mocks.NewLogger())
	handler := m.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-42")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-42", rec.Header().Get(RequestIDHeader))
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("listed origin is echoed", func(t *testing.T) {
		m := NewCORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://clinic.example"}})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://clinic.example")
		rec := httptest.NewRecorder()
		m.Handle(next).ServeHTTP(rec, req)

		assert.Equal(t, "https://clinic.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
		assert.Equal(t, RequestIDHeader, rec.Header().Get("Access-Control-Expose-Headers"))
	})

	t.Run("unlisted origin gets no grant", func(t *testing.T) {
		m := NewCORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://clinic.example"}})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		m.Handle(next).ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		m := NewCORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"*"}})
		rec := httptest.NewRecorder()
		m.Handle(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/appointments", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
