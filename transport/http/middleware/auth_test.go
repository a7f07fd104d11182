package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"simaru/config"
	"simaru/infras/jwt"
	jwtMocks "simaru/infras/jwt/mocks"
	otelMocks "simaru/infras/otel/mocks"
	"simaru/permissions"
	"simaru/shared/constant"
	"simaru/transport/http/middleware"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testPermissions = `{
  "endpoints": [
    {"path": "/health", "method": "GET", "skip": true},
    {"path": "/v1/rooms/", "method": "GET", "permissions": ["admin", "manager", "user"]},
    {"path": "/v1/users/", "method": "GET", "permissions": ["admin"]}
  ]
}`

func newRouter(t *testing.T, jwtService jwt.JWT) http.Handler {
	t.Helper()

	data, err := permissions.Parse([]byte(testPermissions))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	mw := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), data, cfg)

	router := chi.NewRouter()
	router.Use(mw.APIKey, mw.Auth, mw.RBAC)

	ok := func(writer http.ResponseWriter, request *http.Request) {
		userID, _ := request.Context().Value(constant.ContextKeyUserID).(string)
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte(userID))
	}

	router.Get("/health", ok)
	router.Route("/v1", func(r chi.Router) {
		r.Get("/rooms/", ok)
		r.Get("/users/", ok)
		r.Get("/unlisted", ok)
	})

	return router
}

func TestAuthAndRBAC(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		headers   map[string]string
		setupMock func(m *jwtMocks.MockJWT)
		wantCode  int
		wantBody  string
	}{
		{
			name:     "public route without token",
			path:     "/health",
			wantCode: http.StatusOK,
		},
		{
			name:     "missing authorization header",
			path:     "/v1/rooms/",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "malformed authorization header",
			path:     "/v1/rooms/",
			headers:  map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			path:    "/v1/rooms/",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer expired"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "expired", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "claims without user id",
			path:    "/v1/rooms/",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer token"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "token", jwt.AccessToken).
					Return(&jwt.Claims{Email: "ani@campus.ac.id", Role: constant.RoleUser}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "allowed role",
			path:    "/v1/rooms/",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer token"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "token", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "user-1", Email: "ani@campus.ac.id", Role: constant.RoleUser}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: "user-1",
		},
		{
			name:    "role not allowed",
			path:    "/v1/users/",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer token"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "token", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "user-1", Email: "ani@campus.ac.id", Role: constant.RoleManager}, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:    "route missing from permissions",
			path:    "/v1/unlisted",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer token"},
			setupMock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken(gomock.Any(), "token", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "admin-1", Email: "admin@campus.ac.id", Role: constant.RoleAdmin}, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "valid api key skips auth",
			path:     "/v1/users/",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong api key",
			path:     "/v1/users/",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			jwtService := jwtMocks.NewMockJWT(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(jwtService)
			}

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			newRouter(t, jwtService).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
