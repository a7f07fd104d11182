// Package timezone holds the application location, loaded once from APP_TIMEZONE
// (an IANA name such as "Asia/Jakarta", UTC when unset or unknown).
//
// Booking dates and detail times submitted without an offset are read in this
// location, and dashboard days are bucketed by it:
//
//	tgl, err := timezone.Parse(constant.DateOnlyFormat, "2025-01-10")
//	dayStart := timezone.StartOfDay(tgl, timezone.GetLocation())
//	label := timezone.Format(detail.StartTime, constant.DateFormat)
package timezone
