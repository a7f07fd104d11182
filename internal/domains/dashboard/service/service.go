package service

import (
	"context"
	"fmt"
	"simaru/config"
	"simaru/infras/otel"
	"simaru/internal/domains/dashboard/model"
	"simaru/internal/domains/dashboard/model/dto"
	"simaru/internal/domains/dashboard/repository"
	"simaru/shared/cache"
	"simaru/shared/constant"
	"simaru/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const trendDays = 7

type Dashboard interface {
	Get(ctx context.Context) (dto.DashboardResponse, error)
}

type serviceImpl struct {
	repo  repository.Dashboard
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Dashboard, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Dashboard {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Get(ctx context.Context) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = s.cache.Get(ctx, constant.CacheKeyDashboard, &res)
	if err == nil {
		log.Info().Str("cacheKey", constant.CacheKeyDashboard).Msg("cache hit for dashboard")

		return res, nil
	}

	totals, err := s.repo.Totals(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get dashboard totals")

		return res, fmt.Errorf("failed to get dashboard totals: %w", err)
	}

	statuses, err := s.repo.RoomsByStatus(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room status counts")

		return res, fmt.Errorf("failed to get room status counts: %w", err)
	}

	loc := timezone.GetLocation()
	days, since := Window(timezone.Now(), loc)

	bookings, err := s.repo.DailyCounts(ctx, model.TrendBookings, since, loc)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking trends")

		return res, fmt.Errorf("failed to get booking trends: %w", err)
	}

	users, err := s.repo.DailyCounts(ctx, model.TrendUsers, since, loc)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user trends")

		return res, fmt.Errorf("failed to get user trends: %w", err)
	}

	res.FromModel(totals, statuses)
	res.FromTrends(days, bookings, users)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, constant.CacheKeyDashboard, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save dashboard to cache")
		}
	}()

	return res, nil
}

// Window returns the last seven calendar days in loc ending today, oldest first,
// and the instant the oldest day starts.
func Window(now time.Time, loc *time.Location) ([]dto.Day, time.Time) {
	today := timezone.StartOfDay(now.In(loc), loc)

	days := make([]dto.Day, trendDays)
	for i := range trendDays {
		day := today.AddDate(0, 0, i-(trendDays-1))
		days[i] = dto.Day{
			Key:   day.Format(constant.DateOnlyFormat),
			Label: day.Format(constant.DateLabelFormat),
		}
	}

	return days, today.AddDate(0, 0, -(trendDays - 1))
}
