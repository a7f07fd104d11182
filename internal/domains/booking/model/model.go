package model

import (
	"simaru/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldTgl          = "tgl"
	FieldCustomerName = "customer_name"
	FieldUserID       = "user_id"
	FieldCreatedAt    = "created_at"
)

const (
	DetailTableName  = "booking_details"
	DetailEntityName = "booking_detail"

	FieldBookingID = "booking_id"
	FieldRoomID    = "room_id"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
)

const (
	userTableName = "users"
	roomTableName = "rooms"
)

// Booking is a dated reservation header. UserName is read from the owning user.
type Booking struct {
	ID           string    `db:"id"`
	Tgl          time.Time `db:"tgl"`
	CustomerName *string   `db:"customer_name"`
	UserID       *string   `db:"user_id"`
	UserName     *string   `db:"user_name" table:"users" column:"name"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN " + userTableName + " ON " + userTableName + ".id = " + TableName + "." + FieldUserID
}

// BookingDetail is one room and time range of a booking. RoomName is read from the room.
type BookingDetail struct {
	ID        string    `db:"id"`
	BookingID string    `db:"booking_id"`
	RoomID    string    `db:"room_id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	RoomName  *string   `db:"room_name" table:"rooms" column:"name"`
	model.Metadata
}

func (BookingDetail) GetJoinQuery() string {
	return "LEFT JOIN " + roomTableName + " ON " + roomTableName + ".id = " + DetailTableName + "." + FieldRoomID
}

// SameSlot reports whether the detail already holds the given room and time range.
func (d BookingDetail) SameSlot(roomID string, start, end time.Time) bool {
	return d.RoomID == roomID && d.StartTime.Equal(start) && d.EndTime.Equal(end)
}
