package health

import (
	"context"
	"net/http"
	"simaru/infras/otel"
	"simaru/infras/postgres"
	"simaru/shared/constant"
	"simaru/transport/http/response"

	"github.com/go-chi/chi/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	checkPostgres = "postgres"
	checkRedis    = "redis"
)

type Check func(ctx context.Context) error

type Handler struct {
	checks map[string]Check
	otel   otel.Otel
}

func New(db *postgres.Connection, redis *goRedis.Client, otel otel.Otel) Handler {
	return NewWithChecks(otel, map[string]Check{
		checkPostgres: db.Ping,
		checkRedis: func(ctx context.Context) error {
			return redis.Ping(ctx).Err()
		},
	})
}

func NewWithChecks(otel otel.Otel, checks map[string]Check) Handler {
	return Handler{
		checks: checks,
		otel:   otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

// Health reports whether the database and the cache are reachable.
// @Summary Health check
// @Description Ping every backing service.
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Failure 503 {object} response.Message
// @Router /health [get]
func (handler *Handler) Health(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Health")
	defer scope.End()

	for name, check := range handler.checks {
		if err := check(ctx); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("check", name).Msg("health check failed")

			response.WithUnhealthy(writer)

			return
		}
	}

	response.WithMessage(writer, http.StatusOK, "OK")
}
