package router

import (
	"simaru/internal/handlers/auth"
	"simaru/internal/handlers/booking"
	"simaru/internal/handlers/dashboard"
	"simaru/internal/handlers/health"
	"simaru/internal/handlers/room"
	"simaru/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Health    health.Handler
	Auth      auth.Handler
	Dashboard dashboard.Handler
	Room      room.Handler
	User      user.Handler
	Booking   booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Health.Router(router)

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Dashboard.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
