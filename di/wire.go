//go:build wireinject
// +build wireinject

package di

import (
	"simaru/config"
	"simaru/infras/jwt"
	"simaru/infras/kafka"
	"simaru/infras/otel"
	"simaru/infras/postgres"
	"simaru/infras/redis"
	"simaru/infras/s3"
	"simaru/internal/domains/room/photo"
	"simaru/internal/workers/photocleanup"
	"simaru/permissions"
	"simaru/shared/cache"
	"simaru/transport/http"
	"simaru/transport/http/middleware"
	"simaru/transport/http/router"

	"github.com/google/wire"

	authService "simaru/internal/domains/auth/service"
	bookingRepository "simaru/internal/domains/booking/repository"
	bookingService "simaru/internal/domains/booking/service"
	dashboardRepository "simaru/internal/domains/dashboard/repository"
	dashboardService "simaru/internal/domains/dashboard/service"
	roomRepository "simaru/internal/domains/room/repository"
	roomService "simaru/internal/domains/room/service"
	userRepository "simaru/internal/domains/user/repository"
	userService "simaru/internal/domains/user/service"
	authHandler "simaru/internal/handlers/auth"
	bookingHandler "simaru/internal/handlers/booking"
	dashboardHandler "simaru/internal/handlers/dashboard"
	healthHandler "simaru/internal/handlers/health"
	roomHandler "simaru/internal/handlers/room"
	userHandler "simaru/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.Transactor), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	photo.NewStorage,
	photo.NewCleaner,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingRepository.NewDetail,
	bookingService.New,
)

var dashboardDomain = wire.NewSet(
	dashboardRepository.New,
	dashboardService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	roomDomain,
	bookingDomain,
	dashboardDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	authHandler.New,
	dashboardHandler.New,
	roomHandler.New,
	userHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeWorker() *photocleanup.Worker {
	wire.Build(
		config.Get,
		otel.New,
		s3.New,
		kafka.New,
		photocleanup.New,
	)

	return &photocleanup.Worker{}
}
