package service

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"simaru/config"
	"simaru/infras/otel"
	"simaru/infras/postgres"
	"simaru/internal/domains/booking/model"
	"simaru/internal/domains/booking/model/dto"
	"simaru/internal/domains/booking/reconcile"
	"simaru/internal/domains/booking/repository"
	roomModel "simaru/internal/domains/room/model"
	roomRepository "simaru/internal/domains/room/repository"
	"simaru/shared"
	"simaru/shared/cache"
	"simaru/shared/constant"
	gDto "simaru/shared/dto"
	"simaru/shared/failure"
	gModel "simaru/shared/model"
	"simaru/shared/timezone"
	"simaru/shared/validator"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = constant.CachePrefixBooking + "get"
	cacheGetAllBooking = constant.CachePrefixBooking + "gets"
	cacheCountBooking  = constant.CachePrefixBooking + "count"
)

const messageInvalidTgl = "The tgl is not a valid date."

type Booking interface {
	Create(ctx context.Context, req dto.BookingRequest, actorID string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.BookingRequest, id, actorID string) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo       repository.Booking
	detailRepo repository.Detail
	roomRepo   roomRepository.Room
	transactor postgres.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Booking,
	detailRepo repository.Detail,
	roomRepo roomRepository.Room,
	transactor postgres.Transactor,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:       repo,
		detailRepo: detailRepo,
		roomRepo:   roomRepo,
		transactor: transactor,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

// Create stores a booking owned by actorID together with one detail per submitted entry.
func (s *serviceImpl) Create(ctx context.Context, req dto.BookingRequest, actorID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	tgl, rules, fields, err := s.rules(ctx, req)
	if err != nil {
		return res, err
	}

	entries, detailFields := reconcile.Validate(req.BookingDetails, rules)
	if err := failure.Validation(merge(fields, detailFields)); err != nil {
		log.Warn().Interface("fields", fields).Msg("booking rejected")

		return res, err
	}

	now := timezone.Now()
	booking := model.Booking{
		ID:           uuid.NewString(),
		Tgl:          tgl,
		CustomerName: req.CustomerName,
		UserID:       owner(actorID),
		Metadata:     metadata(actorID, now),
	}

	details := make([]model.BookingDetail, len(entries))
	for i, entry := range entries {
		details[i] = newDetail(booking.ID, entry, actorID, now)
	}

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, booking); err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		if err := s.detailRepo.InsertBulkTx(ctx, tx, details); err != nil {
			return fmt.Errorf("failed to insert booking details: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, failure.FromPostgres(fmt.Errorf("failed to create booking: %w", err), "booking references a missing room") // nolint:wrapcheck
	}

	s.invalidate(ctx, constant.Empty, true)

	return s.load(ctx, booking.ID)
}

// Update replaces the header of a booking and reconciles its details with the submitted entries.
// Unchanged rows are left untouched.
func (s *serviceImpl) Update(ctx context.Context, req dto.BookingRequest, id, actorID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, failure.FromLookup(fmt.Errorf("failed to get booking: %w", err), "booking not found") // nolint:wrapcheck
	}

	if current.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	tgl, rules, fields, err := s.rules(ctx, req)
	if err != nil {
		return res, err
	}

	changed := false

	err = s.transactor.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		existing, err := s.detailRepo.GetByBookingTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to get booking details: %w", err)
		}

		rules.Existing = make(map[string]struct{}, len(existing))
		for _, detail := range existing {
			rules.Existing[detail.ID] = struct{}{}
		}

		entries, detailFields := reconcile.Validate(req.BookingDetails, rules)
		if err := failure.Validation(merge(fields, detailFields)); err != nil {
			log.Warn().Interface("fields", fields).Msg("booking rejected")

			return err
		}

		now := timezone.Now()

		if headerChanged(current, tgl, req.CustomerName) {
			if err := s.repo.UpdateTx(ctx, tx, map[string]any{
				model.FieldTgl:           tgl,
				model.FieldCustomerName:  req.CustomerName,
				constant.FieldModifiedAt: now,
				constant.FieldModifiedBy: actor(actorID),
			}, filter); err != nil {
				return fmt.Errorf("failed to update booking: %w", err)
			}

			changed = true
		}

		plan := reconcile.Reconcile(existing, entries)
		if plan.IsEmpty(existing) {
			return nil
		}

		changed = true

		return s.apply(ctx, tx, id, plan, existing, actorID)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return res, failure.FromPostgres(fmt.Errorf("failed to update booking: %w", err), "booking references a missing room") // nolint:wrapcheck
	}

	if changed {
		s.invalidate(ctx, id, false)
	}

	return s.load(ctx, id)
}

func (s *serviceImpl) apply(ctx context.Context, tx *sqlx.Tx, bookingID string, plan reconcile.Plan, existing []model.BookingDetail, actorID string) error {
	now := timezone.Now()

	if len(plan.Delete) > 0 {
		if err := s.detailRepo.DeleteTx(ctx, tx, detailFilter(bookingID, plan.Delete...)); err != nil {
			return fmt.Errorf("failed to delete booking details: %w", err)
		}
	}

	for _, entry := range plan.Changed(existing) {
		if err := s.detailRepo.UpdateTx(ctx, tx, map[string]any{
			model.FieldRoomID:        entry.RoomID,
			model.FieldStartTime:     entry.Start,
			model.FieldEndTime:       entry.End,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: actor(actorID),
		}, detailFilter(bookingID, entry.ID)); err != nil {
			return fmt.Errorf("failed to update booking detail: %w", err)
		}
	}

	if len(plan.Insert) > 0 {
		details := make([]model.BookingDetail, len(plan.Insert))
		for i, entry := range plan.Insert {
			details[i] = newDetail(bookingID, entry, actorID, now)
		}

		if err := s.detailRepo.InsertBulkTx(ctx, tx, details); err != nil {
			return fmt.Errorf("failed to insert booking details: %w", err)
		}
	}

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	var details []model.BookingDetail

	if len(bookings) > 0 {
		ids := make([]string, len(bookings))
		for i, booking := range bookings {
			ids[i] = booking.ID
		}

		details, err = s.detailRepo.GetAll(ctx, dto.DetailOrder, dto.DetailsOf(ids...))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking details")

			return res, fmt.Errorf("failed to get booking details: %w", err)
		}
	}

	res.FromModels(bookings, details, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	return s.load(ctx, id)
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return failure.FromLookup(fmt.Errorf("failed to check if booking exists: %w", err), "booking not found") // nolint:wrapcheck
	}

	if !exist {
		log.Error().Msg("booking not found")

		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	s.invalidate(ctx, id, true)

	return nil
}

// load reads the booking graph from the database and refreshes its cache entry.
func (s *serviceImpl) load(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, failure.FromLookup(fmt.Errorf("failed to get booking: %w", err), "booking not found") // nolint:wrapcheck
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	details, err := s.detailRepo.GetAll(ctx, dto.DetailOrder, dto.DetailsOf(booking.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking details")

		return res, fmt.Errorf("failed to get booking details: %w", err)
	}

	res.FromModel(booking, details)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, shared.BuildCacheKey(cacheGetBooking, id), res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// rules checks the request attributes, parses tgl and resolves which of the submitted rooms exist.
// Attribute failures are returned as fields so they are reported together with the detail failures.
func (s *serviceImpl) rules(ctx context.Context, req dto.BookingRequest) (time.Time, reconcile.Rules, map[string]string, error) {
	fields := map[string]string{}

	if err := validator.ValidateStruct(&req); err != nil {
		if len(failure.GetFields(err)) == 0 {
			return time.Time{}, reconcile.Rules{}, nil, err
		}

		maps.Copy(fields, failure.GetFields(err))
	}

	tgl, err := dto.ParseDate(req.Tgl)
	if err != nil {
		merge(fields, map[string]string{model.FieldTgl: messageInvalidTgl})
	}

	rules := reconcile.Rules{
		Tgl:      tgl,
		Rooms:    map[string]struct{}{},
		Location: timezone.GetLocation(),
	}

	roomIDs := make([]string, 0, len(req.BookingDetails))
	for _, detail := range req.BookingDetails {
		if uuid.Validate(detail.RoomID) == nil && !slices.Contains(roomIDs, detail.RoomID) {
			roomIDs = append(roomIDs, detail.RoomID)
		}
	}

	if len(roomIDs) == 0 {
		return tgl, rules, fields, nil
	}

	rooms, err := s.roomRepo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    roomModel.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    roomIDs,
				Table:    roomModel.TableName,
			},
		},
	}, roomModel.FieldID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms of booking")

		return tgl, rules, fields, fmt.Errorf("failed to get rooms of booking: %w", err)
	}

	for _, room := range rooms {
		rules.Rooms[room.ID] = struct{}{}
	}

	return tgl, rules, fields, nil
}

// merge adds the entries of more that fields does not already report.
func merge(fields, more map[string]string) map[string]string {
	for key, message := range more {
		if _, reported := fields[key]; !reported {
			fields[key] = message
		}
	}

	return fields
}

func (s *serviceImpl) invalidate(ctx context.Context, id string, dashboard bool) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)

		if dashboard {
			if err := s.cache.Delete(c, constant.CacheKeyDashboard); err != nil {
				log.Error().Err(err).Msg("failed to delete dashboard cache")
			}
		}
	}()
}

func headerChanged(current model.Booking, tgl time.Time, customerName *string) bool {
	if current.Tgl.Format(constant.DateOnlyFormat) != tgl.Format(constant.DateOnlyFormat) {
		return true
	}

	switch {
	case current.CustomerName == nil && customerName == nil:
		return false
	case current.CustomerName == nil || customerName == nil:
		return true
	default:
		return *current.CustomerName != *customerName
	}
}

// detailFilter scopes detail writes to the booking so foreign rows are never touched.
func detailFilter(bookingID string, ids ...string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    model.DetailTableName,
			},
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    model.DetailTableName,
			},
		},
	}
}

func newDetail(bookingID string, entry reconcile.Entry, actorID string, now time.Time) model.BookingDetail {
	return model.BookingDetail{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		RoomID:    entry.RoomID,
		StartTime: entry.Start,
		EndTime:   entry.End,
		Metadata:  metadata(actorID, now),
	}
}

// owner is the user a new booking belongs to. Callers authenticated by api key have no user.
func owner(actorID string) *string {
	if actorID == constant.Empty {
		return nil
	}

	return &actorID
}

// actor is the audit name of the caller.
func actor(actorID string) string {
	if actorID == constant.Empty {
		return constant.ActorSystem
	}

	return actorID
}

func metadata(actorID string, now time.Time) gModel.Metadata {
	actorID = actor(actorID)

	return gModel.Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  actorID,
		ModifiedBy: actorID,
	}
}
