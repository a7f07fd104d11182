package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"simaru/config"
	"simaru/infras/otel/mocks"
	dashboardMocks "simaru/internal/domains/dashboard/mocks"
	"simaru/internal/domains/dashboard/model"
	"simaru/internal/domains/dashboard/model/dto"
	"simaru/internal/domains/dashboard/service"
	cacheMocks "simaru/shared/cache/mocks"
	"simaru/shared/constant"
	"simaru/shared/timezone"
)

func TestWindow(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)

	// 2025-01-09 20:00 UTC is already 2025-01-10 in Jakarta.
	days, since := service.Window(time.Date(2025, time.January, 9, 20, 0, 0, 0, time.UTC), jakarta)

	assert.Len(t, days, 7)
	assert.Equal(t, dto.Day{Key: "2025-01-04", Label: "Jan 04"}, days[0])
	assert.Equal(t, dto.Day{Key: "2025-01-10", Label: "Jan 10"}, days[6])
	assert.True(t, since.Equal(time.Date(2025, time.January, 4, 0, 0, 0, 0, jakarta)))
}

func TestDashboardService_Get(t *testing.T) {
	setup := func(t *testing.T) (*dashboardMocks.MockDashboard, *cacheMocks.MockRedisCache, service.Dashboard) {
		t.Helper()

		ctrl := gomock.NewController(t)
		repo := dashboardMocks.NewMockDashboard(ctrl)
		cache := cacheMocks.NewMockRedisCache(ctrl)

		cfg := &config.Config{}
		cfg.Cache.TTL = 60

		return repo, cache, service.New(repo, cfg, cache, mocks.NewOtel())
	}

	t.Run("aggregates statistics", func(t *testing.T) {
		repo, cache, svc := setup(t)

		days, _ := service.Window(timezone.Now(), timezone.GetLocation())

		cache.EXPECT().Get(gomock.Any(), constant.CacheKeyDashboard, gomock.Any()).Return(errors.New("cache miss"))
		cache.EXPECT().Save(gomock.Any(), constant.CacheKeyDashboard, gomock.Any(), 60).Return(nil)
		repo.EXPECT().Totals(gomock.Any()).Return(model.Totals{Users: 4, Rooms: 6, Bookings: 9}, nil)
		repo.EXPECT().RoomsByStatus(gomock.Any()).Return([]model.StatusCount{
			{Status: "approved", Total: 3},
			{Status: "draft", Total: 2},
			{Status: "rejected", Total: 1},
		}, nil)
		repo.EXPECT().DailyCounts(gomock.Any(), model.TrendBookings, gomock.Any(), timezone.GetLocation()).
			Return([]model.DailyCount{{Day: days[6].Key, Total: 5}, {Day: days[0].Key, Total: 1}}, nil)
		repo.EXPECT().DailyCounts(gomock.Any(), model.TrendUsers, gomock.Any(), timezone.GetLocation()).
			Return([]model.DailyCount{{Day: days[3].Key, Total: 2}}, nil)

		res, err := svc.Get(context.Background())
		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, dto.Stats{
			TotalUsers:    4,
			TotalRooms:    6,
			TotalBookings: 9,
			ApprovedRooms: 3,
			DraftRooms:    2,
			RejectedRooms: 1,
		}, res.Stats)
		assert.Equal(t, []dto.Series{
			{Name: "Approved", Value: 3, Fill: "#10b981"},
			{Name: "Draft", Value: 2, Fill: "#f59e0b"},
			{Name: "Rejected", Value: 1, Fill: "#ef4444"},
		}, res.Charts.RoomStatus)
		assert.Equal(t, []dto.Series{
			{Name: "Users", Value: 4, Fill: "#3b82f6"},
			{Name: "Rooms", Value: 6, Fill: "#8b5cf6"},
			{Name: "Bookings", Value: 9, Fill: "#ec4899"},
		}, res.Charts.MainStats)
		assert.Len(t, res.Charts.BookingTrends, 7)
		assert.Equal(t, dto.BookingTrend{Date: days[0].Label, Bookings: 1}, res.Charts.BookingTrends[0])
		assert.Equal(t, 0, res.Charts.BookingTrends[1].Bookings)
		assert.Equal(t, 5, res.Charts.BookingTrends[6].Bookings)
		assert.Equal(t, dto.UserTrend{Date: days[3].Label, Users: 2}, res.Charts.UserTrends[3])
	})

	t.Run("served from cache", func(t *testing.T) {
		repo, cache, svc := setup(t)

		cache.EXPECT().Get(gomock.Any(), constant.CacheKeyDashboard, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				value.(*dto.DashboardResponse).Stats.TotalRooms = 6

				return nil
			})
		repo.EXPECT().Totals(gomock.Any()).Times(0)

		res, err := svc.Get(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, 6, res.Stats.TotalRooms)
	})

	t.Run("repository error", func(t *testing.T) {
		repo, cache, svc := setup(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		repo.EXPECT().Totals(gomock.Any()).Return(model.Totals{}, errors.New("connection refused"))

		_, err := svc.Get(context.Background())

		assert.ErrorContains(t, err, "failed to get dashboard totals")
	})
}
