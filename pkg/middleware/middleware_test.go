package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/traffic-assistant-api/internal/config"
	"github.com/vfg2006/traffic-assistant-api/internal/domain"
	"github.com/vfg2006/traffic-assistant-api/internal/usecases/authenticating"
	"github.com/vfg2006/traffic-assistant-api/pkg/apiErrors"
	"github.com/vfg2006/traffic-assistant-api/pkg/utils"
)

func newAuthenticator(enabled bool) authenticating.Authenticator {
	return authenticating.NewService(&config.Config{
		Auth: config.Auth{Enabled: enabled, Secret: "middleware-secret"},
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func decodeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body apiErrors.APIError
	require.NoError(t, utils.DecodeJSON(rec.Body, &body))
	return body.Code
}

func TestAuthMiddleware(t *testing.T) {
	auth := newAuthenticator(true)
	validToken, err := auth.GenerateToken(domain.Claims{UserID: 1, UserRoleID: RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name          string
		authenticator authenticating.Authenticator
		path          string
		header        string
		wantStatus    int
		validate      func(t *testing.T, r *http.Request)
	}{
		{
			name:          "autenticação desligada marca o contexto",
			authenticator: newAuthenticator(false),
			path:          "/v1/assistant/ask",
			wantStatus:    http.StatusOK,
			validate: func(t *testing.T, r *http.Request) {
				disabled, _ := r.Context().Value(ContextKeyAuthDisabled).(bool)
				assert.True(t, disabled)
			},
		},
		{
			name:          "rota pública dispensa token",
			authenticator: auth,
			path:          "/healthcheck",
			wantStatus:    http.StatusOK,
		},
		{
			name:          "sem header de autorização",
			authenticator: auth,
			path:          "/v1/assistant/ask",
			wantStatus:    http.StatusUnauthorized,
		},
		{
			name:          "esquema diferente de Bearer",
			authenticator: auth,
			path:          "/v1/assistant/ask",
			header:        "Basic abc",
			wantStatus:    http.StatusUnauthorized,
		},
		{
			name:          "token válido coloca as claims no contexto",
			authenticator: auth,
			path:          "/v1/assistant/ask",
			header:        "Bearer " + validToken,
			wantStatus:    http.StatusOK,
			validate: func(t *testing.T, r *http.Request) {
				claims, ok := r.Context().Value(ContextKeyUser).(*domain.Claims)
				require.True(t, ok)
				assert.Equal(t, 1, claims.UserID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received *http.Request
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				received = r
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(tt.authenticator)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Nil(t, received)
				assert.Equal(t, apiErrors.ErrInvalidToken, decodeCode(t, rec))
			}
			if tt.validate != nil {
				require.NotNil(t, received)
				tt.validate(t, received)
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		prepare    func(r *http.Request) *http.Request
		wantStatus int
		wantCode   string
	}{
		{
			name:       "sem claims",
			middleware: AllRoles(),
			prepare:    func(r *http.Request) *http.Request { return r },
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiErrors.ErrInvalidToken,
		},
		{
			name:       "cliente em rota de administrador",
			middleware: AdminOnly(),
			prepare:    withClaims(RoleClient),
			wantStatus: http.StatusForbidden,
			wantCode:   apiErrors.ErrInsufficientPrivilege,
		},
		{
			name:       "administrador em rota de administrador",
			middleware: AdminOnly(),
			prepare:    withClaims(RoleAdmin),
			wantStatus: http.StatusOK,
		},
		{
			name:       "supervisor em rota comum",
			middleware: AllRoles(),
			prepare:    withClaims(RoleSupervisor),
			wantStatus: http.StatusOK,
		},
		{
			name:       "autenticação desligada ignora o role",
			middleware: AdminOnly(),
			prepare: func(r *http.Request) *http.Request {
				return r.WithContext(contextWith(r, ContextKeyAuthDisabled, true))
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.prepare(httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil))
			rec := httptest.NewRecorder()

			tt.middleware(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeCode(t, rec))
			}
		})
	}
}

func TestCors(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{name: "origem permitida", allowed: []string{"http://localhost:3000"}, method: http.MethodPost, origin: "http://localhost:3000", wantStatus: http.StatusOK, wantOrigin: "http://localhost:3000"},
		{name: "origem não permitida", allowed: []string{"http://localhost:3000"}, method: http.MethodPost, origin: "http://evil.test", wantStatus: http.StatusOK},
		{name: "curinga", allowed: []string{"*"}, method: http.MethodGet, origin: "http://any.test", wantStatus: http.StatusOK, wantOrigin: "http://any.test"},
		{name: "preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "http://any.test", wantStatus: http.StatusNoContent, wantOrigin: "http://any.test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/assistant/ask", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			Cors(tt.allowed)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestLogPanicMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	LogPanicMiddleware()(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apiErrors.ErrInternalServer, decodeCode(t, rec))
}

func TestLoggingMiddleware_CapturaStatus(t *testing.T) {
	teapot := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	LoggingMiddleware()(teapot).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250 µs", formatDuration(250*time.Microsecond))
	assert.Equal(t, "15 ms", formatDuration(15*time.Millisecond))
	assert.Equal(t, "1.50 s", formatDuration(1500*time.Millisecond))
}

func withClaims(role int) func(r *http.Request) *http.Request {
	return func(r *http.Request) *http.Request {
		return r.WithContext(contextWith(r, ContextKeyUser, &domain.Claims{UserID: 9, UserRoleID: role}))
	}
}

func contextWith(r *http.Request, key contextKey, value any) context.Context {
	return context.WithValue(r.Context(), key, value)
}
