package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"simaru/config"
	otelMocks "simaru/infras/otel/mocks"
	cacheMocks "simaru/shared/cache/mocks"
	"simaru/shared/constant"
	"simaru/transport/http/middleware"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name          string
		enabled       bool
		count         int64
		cacheErr      error
		wantCode      int
		wantRemaining string
	}{
		{name: "disabled", enabled: false, wantCode: http.StatusOK},
		{name: "first request", enabled: true, count: 1, wantCode: http.StatusOK, wantRemaining: "2"},
		{name: "last allowed request", enabled: true, count: 3, wantCode: http.StatusOK, wantRemaining: "0"},
		{name: "over the limit", enabled: true, count: 4, wantCode: http.StatusTooManyRequests, wantRemaining: "0"},
		{name: "redis unavailable", enabled: true, cacheErr: errors.New("redis down"), wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			redisCache := cacheMocks.NewMockRedisCache(ctrl)

			cfg := &config.Config{}
			cfg.App.RateLimiter.Enable = tt.enabled
			cfg.App.RateLimiter.MaxRequests = 3
			cfg.App.RateLimiter.WindowSeconds = 60

			if tt.enabled {
				redisCache.EXPECT().
					Increment(gomock.Any(), "limiter:10.0.0.7:campus-app", 60).
					Return(tt.count, tt.cacheErr)
			}

			handler := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, redisCache).RateLimit()(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
			)

			req := httptest.NewRequest(http.MethodGet, "/v1/rooms/", nil)
			req.RemoteAddr = "10.0.0.7:51234"
			req.Header.Set(constant.RequestHeaderUserAgent, "campus-app")

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}
