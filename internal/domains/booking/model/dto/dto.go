package dto

import (
	"errors"
	"strings"
	"time"

	"simaru/internal/domains/booking/model"
	"simaru/shared"
	"simaru/shared/constant"
	gDto "simaru/shared/dto"
	"simaru/shared/timezone"
)

var ErrInvalidDateTime = errors.New("invalid date time")

// dateTimeLayouts are tried in order; all but RFC3339 are read in the application time zone.
var dateTimeLayouts = []string{
	constant.DateTimeFormat,
	constant.DateMinuteFormat,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

type BookingDetailRequest struct {
	ID     string `json:"id"      validate:"omitempty,uuid"`
	RoomID string `json:"room_id" validate:"required,uuid"`
	Start  string `json:"start"   validate:"required"`
	End    string `json:"end"     validate:"required"`
}

// BookingRequest is the payload of both create and update.
type BookingRequest struct {
	Tgl            string                 `json:"tgl"             validate:"required,datetime=2006-01-02"`
	CustomerName   *string                `json:"customer_name"   validate:"omitempty,max=255"`
	BookingDetails []BookingDetailRequest `json:"booking_details" validate:"required,min=1,dive"`
}

// Normalize trims the customer name and drops it when blank.
func (r *BookingRequest) Normalize() {
	if r.CustomerName == nil {
		return
	}

	name := strings.TrimSpace(*r.CustomerName)
	if name == constant.Empty {
		r.CustomerName = nil

		return
	}

	r.CustomerName = &name
}

// ParseDate reads a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(constant.DateOnlyFormat, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}

	return date, nil
}

// ParseDateTime reads RFC3339 or a local "YYYY-MM-DD HH:MM[:SS]" value in loc.
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrInvalidDateTime
}

type BookingDetailResponse struct {
	ID       string  `json:"id"`
	RoomID   string  `json:"room_id"`
	RoomName *string `json:"room_name"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
}

func (r *BookingDetailResponse) FromModel(detail model.BookingDetail) {
	r.ID = detail.ID
	r.RoomID = detail.RoomID
	r.RoomName = detail.RoomName
	r.Start = timezone.Format(detail.StartTime, constant.DateFormat)
	r.End = timezone.Format(detail.EndTime, constant.DateFormat)
}

type BookingResponse struct {
	ID             string                  `json:"id"`
	Tgl            string                  `json:"tgl"`
	CustomerName   *string                 `json:"customer_name"`
	UserID         *string                 `json:"user_id"`
	UserName       *string                 `json:"user_name"`
	BookingDetails []BookingDetailResponse `json:"booking_details"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking, details []model.BookingDetail) {
	r.ID = booking.ID
	r.Tgl = booking.Tgl.Format(constant.DateOnlyFormat)
	r.CustomerName = booking.CustomerName
	r.UserID = booking.UserID
	r.UserName = booking.UserName
	r.Metadata.FromModel(booking.Metadata)

	r.BookingDetails = make([]BookingDetailResponse, len(details))
	for i, detail := range details {
		r.BookingDetails[i].FromModel(detail)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

// FromModels attaches to every booking the details whose BookingID points at it.
func (r *GetBookingsResponse) FromModels(bookings []model.Booking, details []model.BookingDetail, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	byBooking := make(map[string][]model.BookingDetail, len(bookings))
	for _, detail := range details {
		byBooking[detail.BookingID] = append(byBooking[detail.BookingID], detail)
	}

	r.Bookings = make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		r.Bookings[i].FromModel(booking, byBooking[booking.ID])
	}
}

// SearchFilter matches the customer name or the owning user's name.
func SearchFilter(search string) gDto.FilterGroup {
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if search = strings.TrimSpace(search); search != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{
					ArgName:  "search_customer_name",
					Field:    model.FieldCustomerName,
					Operator: gDto.FilterOperatorLike,
					Value:    search,
					Table:    model.TableName,
				},
				gDto.Filter{
					ArgName:  "search_user_name",
					Field:    "name",
					Operator: gDto.FilterOperatorLike,
					Value:    search,
					Table:    "users",
				},
			},
		})
	}

	return filter
}

// DetailsOf selects the details of the given bookings.
func DetailsOf(bookingIDs ...string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingID,
				Operator: gDto.FilterOperatorIn,
				Value:    bookingIDs,
				Table:    model.DetailTableName,
			},
		},
	}
}

// DetailOrder lists details chronologically.
var DetailOrder = gDto.QueryParams{
	SortBy:  model.DetailTableName + "." + model.FieldStartTime,
	SortDir: gDto.SortDirAsc,
}

var SortableColumns = map[string]string{
	model.FieldTgl:          model.TableName + "." + model.FieldTgl,
	model.FieldCustomerName: model.TableName + "." + model.FieldCustomerName,
	model.FieldCreatedAt:    model.TableName + "." + model.FieldCreatedAt,
}

const DefaultSortBy = model.TableName + "." + model.FieldCreatedAt
