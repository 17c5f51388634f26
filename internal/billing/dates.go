// Package billing implements the invoice batch construction engine: billing
// date derivation, window presets, eligibility filtering, duplicate
// detection, and financial aggregation. Everything here is pure computation
// over domain values; persistence stays behind the port interfaces.
package billing

import (
	"time"

	"dealerops/internal/domain"
)

// BillingDate derives the date an order is billed against. Sales and service
// orders bill on their due date, recon and car wash orders on their
// completion date; anything missing falls back to creation time. The same
// derivation is used for selection, display, and duplicate grouping so an
// order can never appear inside one window and outside another.
func BillingDate(o *domain.Order) time.Time {
	switch o.OrderType {
	case domain.OrderTypeSales, domain.OrderTypeService:
		if o.DueDate != nil {
			return *o.DueDate
		}
	case domain.OrderTypeRecon, domain.OrderTypeCarwash:
		if o.CompletedAt != nil {
			return *o.CompletedAt
		}
	}
	return o.CreatedAt
}

// DateWindow is a calendar-day interval, inclusive at both ends. End is
// normalized to 23:59:59.999 local by the constructors.
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, endpoints included.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// WindowPreset names a relative reporting window.
type WindowPreset string

const (
	PresetToday       WindowPreset = "today"
	PresetThisWeek    WindowPreset = "this_week"
	PresetLastWeek    WindowPreset = "last_week"
	PresetThisMonth   WindowPreset = "this_month"
	PresetLastMonth   WindowPreset = "last_month"
	PresetLast3Months WindowPreset = "last_3_months"
	PresetCustom      WindowPreset = "custom"
)

// LocalMidnight truncates t to midnight in its own location. Every preset
// boundary is computed through this single function.
func LocalMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay normalizes t to 23:59:59.999 local. The endpoint is built from
// calendar components rather than midnight plus a duration; DST days are not
// 24 hours long.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999e6, t.Location())
}

// NewWindow builds a custom window from two dates, normalizing start to
// midnight and end to end-of-day. Start after end is rejected.
func NewWindow(start, end time.Time) (DateWindow, error) {
	s := LocalMidnight(start)
	e := EndOfDay(end)
	if e.Before(s) {
		return DateWindow{}, domain.ErrInvalidWindow
	}
	return DateWindow{Start: s, End: e}, nil
}

// ResolveWindow computes the window for a preset relative to now. Weeks run
// Monday through Sunday in now's location.
func ResolveWindow(preset WindowPreset, now time.Time) (DateWindow, error) {
	today := LocalMidnight(now)
	switch preset {
	case PresetToday:
		return DateWindow{Start: today, End: EndOfDay(today)}, nil
	case PresetThisWeek:
		start := startOfWeek(today)
		return DateWindow{Start: start, End: EndOfDay(start.AddDate(0, 0, 6))}, nil
	case PresetLastWeek:
		start := startOfWeek(today).AddDate(0, 0, -7)
		return DateWindow{Start: start, End: EndOfDay(start.AddDate(0, 0, 6))}, nil
	case PresetThisMonth:
		start := startOfMonth(today)
		return DateWindow{Start: start, End: EndOfDay(start.AddDate(0, 1, -1))}, nil
	case PresetLastMonth:
		start := startOfMonth(today).AddDate(0, -1, 0)
		return DateWindow{Start: start, End: EndOfDay(start.AddDate(0, 1, -1))}, nil
	case PresetLast3Months:
		start := startOfMonth(today).AddDate(0, -2, 0)
		end := startOfMonth(today).AddDate(0, 1, -1)
		return DateWindow{Start: start, End: EndOfDay(end)}, nil
	default:
		return DateWindow{}, domain.ErrInvalidWindow
	}
}

func startOfWeek(day time.Time) time.Time {
	// time.Weekday puts Sunday at 0; shift so Monday starts the week
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(day time.Time) time.Time {
	y, m, _ := day.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, day.Location())
}
