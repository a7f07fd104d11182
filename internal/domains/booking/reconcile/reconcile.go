// Package reconcile turns a submitted list of booking detail entries into the
// set of row changes needed to make a booking's stored details match it.
package reconcile

import (
	"fmt"
	"time"

	"simaru/internal/domains/booking/model"
	"simaru/internal/domains/booking/model/dto"
	"simaru/shared/constant"
	"simaru/shared/timezone"
)

const (
	keyDetails = "booking_details"

	attrID     = "id"
	attrRoomID = "room_id"
	attrStart  = "start"
	attrEnd    = "end"
)

const (
	messageRequired     = "At least one booking detail is required."
	messageInvalidRoom  = "The selected room is invalid."
	messageInvalidTime  = "The %s must be a valid date time."
	messageBeforeTgl    = "The start must be a date after or equal to tgl."
	messageEndNotAfter  = "The end must be a date after start."
	messageUnknownID    = "The selected id does not belong to this booking."
	messageDuplicatedID = "The id field has a duplicate value."
)

// Entry is a validated detail submission. ID is empty for new rows.
type Entry struct {
	ID     string
	RoomID string
	Start  time.Time
	End    time.Time
}

// Plan is the outcome of a reconciliation. Delete holds ids of stored rows that
// were not resubmitted, Update the entries that reference a stored row and
// Insert the entries without an id.
type Plan struct {
	Delete []string
	Update []Entry
	Insert []Entry
}

// Rules carries what the entries are validated against. Existing is nil on
// create, in which case submitted ids are ignored.
type Rules struct {
	Tgl      time.Time
	Rooms    map[string]struct{}
	Existing map[string]struct{}
	Location *time.Location
}

// Key returns the error key of an attribute of the entry at index.
func Key(index int, attribute string) string {
	return fmt.Sprintf("%s.%d.%s", keyDetails, index, attribute)
}

// Validate checks every submitted entry and collects all failures keyed by
// booking_details.<index>.<attribute>. Entries are returned only when fields is empty.
func Validate(details []dto.BookingDetailRequest, rules Rules) (entries []Entry, fields map[string]string) {
	fields = map[string]string{}

	if len(details) == 0 {
		fields[keyDetails] = messageRequired

		return nil, fields
	}

	dayStart := timezone.StartOfDay(rules.Tgl, rules.Location)
	seen := make(map[string]int, len(details))
	entries = make([]Entry, 0, len(details))

	for index, detail := range details {
		entry := Entry{RoomID: detail.RoomID}

		if rules.Existing != nil && detail.ID != constant.Empty {
			entry.ID = detail.ID

			if _, owned := rules.Existing[detail.ID]; !owned {
				fields[Key(index, attrID)] = messageUnknownID
			}

			if _, duplicated := seen[detail.ID]; duplicated {
				fields[Key(index, attrID)] = messageDuplicatedID
			}

			seen[detail.ID] = index
		}

		if _, found := rules.Rooms[detail.RoomID]; !found {
			fields[Key(index, attrRoomID)] = messageInvalidRoom
		}

		start, startErr := dto.ParseDateTime(detail.Start, rules.Location)
		if startErr != nil {
			fields[Key(index, attrStart)] = fmt.Sprintf(messageInvalidTime, attrStart)
		}

		end, endErr := dto.ParseDateTime(detail.End, rules.Location)
		if endErr != nil {
			fields[Key(index, attrEnd)] = fmt.Sprintf(messageInvalidTime, attrEnd)
		}

		if startErr == nil && start.Before(dayStart) {
			fields[Key(index, attrStart)] = messageBeforeTgl
		}

		if startErr == nil && endErr == nil && !end.After(start) {
			fields[Key(index, attrEnd)] = messageEndNotAfter
		}

		entry.Start = start
		entry.End = end
		entries = append(entries, entry)
	}

	if len(fields) > 0 {
		return nil, fields
	}

	return entries, nil
}

// Reconcile diffs the stored details of a booking against the submitted entries.
// Stored ids that are not resubmitted are deleted, entries carrying an id update
// that row and entries without one are inserted.
func Reconcile(existing []model.BookingDetail, entries []Entry) Plan {
	incoming := make(map[string]struct{}, len(entries))
	plan := Plan{}

	for _, entry := range entries {
		if entry.ID == constant.Empty {
			plan.Insert = append(plan.Insert, entry)

			continue
		}

		incoming[entry.ID] = struct{}{}
		plan.Update = append(plan.Update, entry)
	}

	for _, detail := range existing {
		if _, kept := incoming[detail.ID]; !kept {
			plan.Delete = append(plan.Delete, detail.ID)
		}
	}

	return plan
}

// Changed returns the updates whose room or time range differ from the stored row.
func (p Plan) Changed(existing []model.BookingDetail) []Entry {
	stored := make(map[string]model.BookingDetail, len(existing))
	for _, detail := range existing {
		stored[detail.ID] = detail
	}

	changed := make([]Entry, 0, len(p.Update))

	for _, entry := range p.Update {
		if detail, ok := stored[entry.ID]; ok && detail.SameSlot(entry.RoomID, entry.Start, entry.End) {
			continue
		}

		changed = append(changed, entry)
	}

	return changed
}

// IsEmpty reports whether applying the plan against existing writes nothing.
func (p Plan) IsEmpty(existing []model.BookingDetail) bool {
	return len(p.Delete) == 0 && len(p.Insert) == 0 && len(p.Changed(existing)) == 0
}
