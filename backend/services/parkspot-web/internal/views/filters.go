package views

import (
	"strings"
	"time"

	"parkspot/backend/services/parkspot-web/internal/models"
)

// FilterAll disables a status filter. Matching is case-insensitive so "All" and "ALL" both work.
const FilterAll = "ALL"

// Filter option sets offered by the pages.
var (
	SpotStatusFilters    = []string{"All", string(models.SpotBooked), string(models.SpotAvailable), string(models.SpotCancelled)}
	MyBookingFilters     = []string{FilterAll, string(models.PaymentPaid), string(models.PaymentPending), string(models.PaymentInitiated)}
	AdminBookingFilters  = []string{FilterAll, string(models.PaymentPaid), string(models.PaymentPending)}
	AvailableSpotFilters = []string{"All", "Location"}
)

func isAll(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, FilterAll)
}

// MatchSpotStatus keeps spots whose status equals value.
func MatchSpotStatus(spot models.ParkingSpot, value string) bool {
	return isAll(value) || strings.EqualFold(string(spot.Status), value)
}

// MatchPaymentStatus keeps bookings whose payment status equals value.
func MatchPaymentStatus(b models.Booking, value string) bool {
	return isAll(value) || strings.EqualFold(string(b.PaymentStatus), value)
}

// DateRange is an inclusive day range. Either bound may be zero.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange reads yyyy-mm-dd bounds; malformed bounds are ignored.
func ParseDateRange(from, to string) DateRange {
	var r DateRange
	if t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(from), time.Local); err == nil {
		r.From = t
	}
	if t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(to), time.Local); err == nil {
		r.To = t
	}
	return r
}

// Contains reports whether t falls inside the range. The To day is included whole.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// FilterAuditLogs keeps entries inside r.
func FilterAuditLogs(entries []models.AuditLogEntry, r DateRange) []models.AuditLogEntry {
	if r.From.IsZero() && r.To.IsZero() {
		return entries
	}
	within := AuditLogsWithin(r)
	out := make([]models.AuditLogEntry, 0, len(entries))
	for _, e := range entries {
		if within(e) {
			out = append(out, e)
		}
	}
	return out
}

// AuditLogsWithin reports whether an entry falls inside r. Entries without a timestamp only pass
// an open range.
func AuditLogsWithin(r DateRange) func(models.AuditLogEntry) bool {
	return func(e models.AuditLogEntry) bool {
		if r.From.IsZero() && r.To.IsZero() {
			return true
		}
		return !e.ChangeTimestamp.IsZero() && r.Contains(e.ChangeTimestamp.Time)
	}
}
