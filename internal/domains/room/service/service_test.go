package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"simaru/config"
	"simaru/infras/otel/mocks"
	roomMocks "simaru/internal/domains/room/mocks"
	"simaru/internal/domains/room/model"
	"simaru/internal/domains/room/model/dto"
	photoMocks "simaru/internal/domains/room/photo/mocks"
	"simaru/internal/domains/room/service"
	cacheMocks "simaru/shared/cache/mocks"
	"simaru/shared/constant"
	gDto "simaru/shared/dto"
	"simaru/shared/failure"
)

type photoFile struct {
	*bytes.Reader
}

func (photoFile) Close() error { return nil }

func newPhotoFile(t *testing.T) photoFile {
	t.Helper()

	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 20, 20))))

	return photoFile{bytes.NewReader(buf.Bytes())}
}

type fixture struct {
	repo    *roomMocks.MockRoom
	cache   *cacheMocks.MockRedisCache
	storage *photoMocks.MockStorage
	cleaner *photoMocks.MockCleaner
	svc     service.Room
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:    roomMocks.NewMockRoom(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
		storage: photoMocks.NewMockStorage(ctrl),
		cleaner: photoMocks.NewMockCleaner(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Storage.PhotoMaxSizeMB = 2
	cfg.Storage.PhotoMaxEdge = 1600

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.storage, f.cleaner)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.storage.EXPECT().URL(gomock.Any()).DoAndReturn(func(key string) string {
		return "https://cdn.example.com/" + key
	}).AnyTimes()

	return f
}

func strPtr(s string) *string {
	return &s
}

func userContext() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
}

func TestRoomService_Create(t *testing.T) {
	tests := []struct {
		name      string
		withPhoto bool
		setupMock func(f fixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "create without photo defaults to draft",
			setupMock: func(f fixture) {
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, model.StatusDraft, room.Status)
						assert.Nil(t, room.Photo)
						assert.Equal(t, "admin-id", room.CreatedBy)

						return nil
					})
			},
		},
		{
			name:      "create with photo stores the key",
			withPhoto: true,
			setupMock: func(f fixture) {
				f.storage.EXPECT().Save(gomock.Any(), gomock.Any()).Return("uploads/rooms/new.png", nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, room model.Room) error {
						assert.Equal(t, "uploads/rooms/new.png", room.PhotoKey())

						return nil
					})
			},
		},
		{
			name:      "insert failure removes the uploaded photo",
			withPhoto: true,
			setupMock: func(f fixture) {
				f.storage.EXPECT().Save(gomock.Any(), gomock.Any()).Return("uploads/rooms/new.png", nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
				f.cleaner.EXPECT().Cleanup(gomock.Any(), "uploads/rooms/new.png")
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
		{
			name:      "storage failure aborts before insert",
			withPhoto: true,
			setupMock: func(f fixture) {
				f.storage.EXPECT().Save(gomock.Any(), gomock.Any()).Return("", errors.New("s3 down"))
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			req := dto.CreateRoomRequest{Name: "Lab 1", FacultyName: "Engineering", Capacity: 30}
			if tt.withPhoto {
				req.PhotoFile = newPhotoFile(t)
			}

			err := f.svc.Create(userContext(), req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Room{
		{ID: "room-1", Name: "Lab 1", Photo: strPtr("uploads/rooms/a.png")},
		{ID: "room-2", Name: "Lab 2"},
	}, nil)

	res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 1}, dto.SearchFilter("lab", ""))

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Rooms, 2)
	assert.Equal(t, "https://cdn.example.com/uploads/rooms/a.png", *res.Rooms[0].PhotoURL)
	assert.Nil(t, res.Rooms[1].PhotoURL)
}

func TestRoomService_Get(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		_, err := f.svc.Get(context.Background(), "missing")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(model.Room{}, fmt.Errorf("failed to get data (room): %w", &pq.Error{Code: "22P02"}))

		_, err := f.svc.Get(context.Background(), "not-a-uuid")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "room-1", Name: "Lab 1", Capacity: 30}, nil)

		res, err := f.svc.Get(context.Background(), "room-1")

		time.Sleep(10 * time.Millisecond)

		assert.NoError(t, err)
		assert.Equal(t, "Lab 1", res.Name)
		assert.Equal(t, 30, res.Capacity)
	})
}

func TestRoomService_Update(t *testing.T) {
	existing := model.Room{ID: "room-1", Name: "Lab 1", Photo: strPtr("uploads/rooms/old.png")}

	tests := []struct {
		name      string
		req       dto.UpdateRoomRequest
		withPhoto bool
		setupMock func(f fixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "room not found",
			req:  dto.UpdateRoomRequest{Name: "Lab 2"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "partial update keeps the photo",
			req:  dto.UpdateRoomRequest{Name: "Lab 2"},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "Lab 2", fields[model.FieldName])
						assert.NotContains(t, fields, model.FieldPhoto)
						assert.NotContains(t, fields, model.FieldCapacity)

						return nil
					})
			},
		},
		{
			name:      "new photo replaces and cleans the old one",
			withPhoto: true,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.storage.EXPECT().Save(gomock.Any(), gomock.Any()).Return("uploads/rooms/new.png", nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, "uploads/rooms/new.png", fields[model.FieldPhoto])

						return nil
					})
				f.cleaner.EXPECT().Cleanup(gomock.Any(), "uploads/rooms/old.png")
			},
		},
		{
			name: "remove photo clears the column",
			req:  dto.UpdateRoomRequest{RemovePhoto: true},
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, model.FieldPhoto)
						assert.Nil(t, fields[model.FieldPhoto])

						return nil
					})
				f.cleaner.EXPECT().Cleanup(gomock.Any(), "uploads/rooms/old.png")
			},
		},
		{
			name:      "failed update removes the new photo only",
			withPhoto: true,
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.storage.EXPECT().Save(gomock.Any(), gomock.Any()).Return("uploads/rooms/new.png", nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
				f.cleaner.EXPECT().Cleanup(gomock.Any(), "uploads/rooms/new.png")
			},
			wantErr:  true,
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			req := tt.req
			if tt.withPhoto {
				req.PhotoFile = newPhotoFile(t)
			}

			err := f.svc.Update(userContext(), req, "room-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "room not found",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "room referenced by bookings",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "room-1"}, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(fmt.Errorf("failed to delete data (room): %w", &pq.Error{Code: "23503"}))
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "delete cleans the photo",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: "room-1", Photo: strPtr("uploads/rooms/a.png")}, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
				f.cleaner.EXPECT().Cleanup(gomock.Any(), "uploads/rooms/a.png")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(userContext(), "room-1")

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
