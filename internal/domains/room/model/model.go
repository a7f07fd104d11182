package model

import "simaru/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldName        = "name"
	FieldFacultyName = "faculty_name"
	FieldPhoto       = "photo"
	FieldCapacity    = "capacity"
	FieldStatus      = "status"
	FieldCreatedAt   = "created_at"
)

const (
	StatusDraft    = "draft"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Statuses lists the moderation states in display order.
var Statuses = []string{StatusApproved, StatusDraft, StatusRejected}

type Room struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	FacultyName string  `db:"faculty_name"`
	Photo       *string `db:"photo"`
	Capacity    int     `db:"capacity"`
	Status      string  `db:"status"`
	model.Metadata
}

// PhotoKey returns the stored photo key, or an empty string when the room has none.
func (r Room) PhotoKey() string {
	if r.Photo == nil {
		return ""
	}

	return *r.Photo
}
