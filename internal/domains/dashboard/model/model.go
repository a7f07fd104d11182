package model

const (
	EntityName = "dashboard"

	usersTable    = "users"
	roomsTable    = "rooms"
	bookingsTable = "bookings"
)

// Trend sources counted per day by created_at.
const (
	TrendBookings = bookingsTable
	TrendUsers    = usersTable
)

type Totals struct {
	Users    int `db:"users"`
	Rooms    int `db:"rooms"`
	Bookings int `db:"bookings"`
}

type StatusCount struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}

// DailyCount holds the rows created on Day, formatted as YYYY-MM-DD in the application time zone.
type DailyCount struct {
	Day   string `db:"day"`
	Total int    `db:"total"`
}

func TotalsQuery() string {
	return "SELECT " +
		"(SELECT COUNT(*) FROM " + usersTable + ") AS users, " +
		"(SELECT COUNT(*) FROM " + roomsTable + ") AS rooms, " +
		"(SELECT COUNT(*) FROM " + bookingsTable + ") AS bookings"
}

func RoomStatusQuery() string {
	return "SELECT status, COUNT(*) AS total FROM " + roomsTable + " GROUP BY status"
}

func DailyCountQuery(table string) string {
	return "SELECT to_char(created_at AT TIME ZONE $1, 'YYYY-MM-DD') AS day, COUNT(*) AS total FROM " + table +
		" WHERE created_at >= $2 GROUP BY day"
}
