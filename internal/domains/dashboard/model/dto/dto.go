package dto

import (
	"simaru/internal/domains/dashboard/model"
	roomModel "simaru/internal/domains/room/model"
)

const (
	colorApproved = "#10b981"
	colorDraft    = "#f59e0b"
	colorRejected = "#ef4444"
	colorUsers    = "#3b82f6"
	colorRooms    = "#8b5cf6"
	colorBookings = "#ec4899"
)

type Stats struct {
	TotalUsers    int `json:"total_users"`
	TotalRooms    int `json:"total_rooms"`
	TotalBookings int `json:"total_bookings"`
	ApprovedRooms int `json:"approved_rooms"`
	DraftRooms    int `json:"draft_rooms"`
	RejectedRooms int `json:"rejected_rooms"`
}

// Series is one bar or slice of a chart.
type Series struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Fill  string `json:"fill"`
}

type BookingTrend struct {
	Date     string `json:"date"`
	Bookings int    `json:"bookings"`
}

type UserTrend struct {
	Date  string `json:"date"`
	Users int    `json:"users"`
}

type Charts struct {
	RoomStatus    []Series       `json:"room_status"`
	MainStats     []Series       `json:"main_stats"`
	BookingTrends []BookingTrend `json:"booking_trends"`
	UserTrends    []UserTrend    `json:"user_trends"`
}

type DashboardResponse struct {
	Stats  Stats  `json:"stats"`
	Charts Charts `json:"charts"`
}

// Day is one calendar day of a trend: Key matches model.DailyCount.Day, Label is shown on the chart.
type Day struct {
	Key   string
	Label string
}

func (r *DashboardResponse) FromModel(totals model.Totals, statuses []model.StatusCount) {
	r.Stats = Stats{
		TotalUsers:    totals.Users,
		TotalRooms:    totals.Rooms,
		TotalBookings: totals.Bookings,
	}

	for _, status := range statuses {
		switch status.Status {
		case roomModel.StatusApproved:
			r.Stats.ApprovedRooms = status.Total
		case roomModel.StatusDraft:
			r.Stats.DraftRooms = status.Total
		case roomModel.StatusRejected:
			r.Stats.RejectedRooms = status.Total
		}
	}

	r.Charts.RoomStatus = []Series{
		{Name: "Approved", Value: r.Stats.ApprovedRooms, Fill: colorApproved},
		{Name: "Draft", Value: r.Stats.DraftRooms, Fill: colorDraft},
		{Name: "Rejected", Value: r.Stats.RejectedRooms, Fill: colorRejected},
	}

	r.Charts.MainStats = []Series{
		{Name: "Users", Value: r.Stats.TotalUsers, Fill: colorUsers},
		{Name: "Rooms", Value: r.Stats.TotalRooms, Fill: colorRooms},
		{Name: "Bookings", Value: r.Stats.TotalBookings, Fill: colorBookings},
	}
}

// FromTrends fills one point per day, zero when nothing was created that day.
func (r *DashboardResponse) FromTrends(days []Day, bookings, users []model.DailyCount) {
	bookingsByDay := byDay(bookings)
	usersByDay := byDay(users)

	r.Charts.BookingTrends = make([]BookingTrend, len(days))
	r.Charts.UserTrends = make([]UserTrend, len(days))

	for i, day := range days {
		r.Charts.BookingTrends[i] = BookingTrend{Date: day.Label, Bookings: bookingsByDay[day.Key]}
		r.Charts.UserTrends[i] = UserTrend{Date: day.Label, Users: usersByDay[day.Key]}
	}
}

func byDay(counts []model.DailyCount) map[string]int {
	res := make(map[string]int, len(counts))
	for _, count := range counts {
		res[count.Day] = count.Total
	}

	return res
}
