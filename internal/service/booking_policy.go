package service

import (
	"time"

	"medical-appointment-booking/config"
	"medical-appointment-booking/internal/domain/entity"
)

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// BookingPolicy holds the date arithmetic shared by the calendar, the
// availability checker and the booking validator. All day boundaries are
// computed in the clinic time zone.
type BookingPolicy struct {
	cfg config.BookingConfig
}

func NewBookingPolicy(cfg config.BookingConfig) *BookingPolicy {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &BookingPolicy{cfg: cfg}
}

func (p *BookingPolicy) Config() config.BookingConfig {
	return p.cfg
}

func (p *BookingPolicy) Location() *time.Location {
	return p.cfg.Location
}

// StartOfDay returns local midnight of the clinic day containing t.
func (p *BookingPolicy) StartOfDay(t time.Time) time.Time {
	local := t.In(p.cfg.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.cfg.Location)
}

// NextDay returns local midnight of the day after day.
func (p *BookingPolicy) NextDay(day time.Time) time.Time {
	local := day.In(p.cfg.Location)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, p.cfg.Location)
}

// DaysBetween counts calendar days from a to b in the clinic time zone.
func (p *BookingPolicy) DaysBetween(a, b time.Time) int {
	la, lb := a.In(p.cfg.Location), b.In(p.cfg.Location)
	da := time.Date(la.Year(), la.Month(), la.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(lb.Year(), lb.Month(), lb.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da) / (24 * time.Hour))
}

// IsAllowedDay reports whether the clinic day containing t is bookable.
func (p *BookingPolicy) IsAllowedDay(t time.Time) bool {
	return p.cfg.IsAllowedWeekday(t.In(p.cfg.Location).Weekday())
}

// WithinWindow reports whether day is strictly after today and no more than
// AdvanceWindowDays ahead. Today itself is never bookable.
func (p *BookingPolicy) WithinWindow(day, now time.Time) bool {
	d := p.DaysBetween(now, day)
	return d >= 1 && d <= p.cfg.AdvanceWindowDays
}

// DayGrid returns the fixed slot grid of the clinic day containing day.
func (p *BookingPolicy) DayGrid(day time.Time) []entity.Slot {
	start := p.StartOfDay(day)
	slots := make([]entity.Slot, p.cfg.SlotsPerDay)
	for i := range slots {
		s := start.Add(p.cfg.DayStart + time.Duration(i)*p.cfg.SlotDuration)
		slots[i] = entity.Slot{Start: s, End: s.Add(p.cfg.SlotDuration)}
	}
	return slots
}

// OnGrid reports whether t is the start of one of its day's slots.
func (p *BookingPolicy) OnGrid(t time.Time) bool {
	for _, slot := range p.DayGrid(t) {
		if slot.StartsAt(t) {
			return true
		}
	}
	return false
}
