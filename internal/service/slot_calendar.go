package service

import (
	"time"

	"medical-appointment-booking/internal/domain/entity"
)

const calendarLabelLayout = "Monday, 02 Jan 2006"

// SlotCalendar produces the upcoming bookable dates.
type SlotCalendar struct {
	policy *BookingPolicy
	now    Clock
}

func NewSlotCalendar(policy *BookingPolicy, now Clock) *SlotCalendar {
	if now == nil {
		now = time.Now
	}
	return &SlotCalendar{policy: policy, now: now}
}

// Upcoming returns the calendar relative to the current time.
func (c *SlotCalendar) Upcoming() []entity.CalendarDate {
	return c.Generate(c.now())
}

// Generate returns the next CalendarSize allowed dates after now's clinic day,
// in ascending order. Today is skipped even when it is an allowed weekday, so
// invoking on a Friday yields the Friday seven days later first.
func (c *SlotCalendar) Generate(now time.Time) []entity.CalendarDate {
	cfg := c.policy.Config()
	if len(cfg.AllowedWeekdays) == 0 || cfg.CalendarSize <= 0 {
		return nil
	}

	dates := make([]entity.CalendarDate, 0, cfg.CalendarSize)
	day := c.policy.NextDay(c.policy.StartOfDay(now))
	for len(dates) < cfg.CalendarSize {
		if c.policy.IsAllowedDay(day) {
			dates = append(dates, entity.CalendarDate{
				Date:       day,
				ISOInstant: day.UTC().Format(time.RFC3339),
				Label:      day.Format(calendarLabelLayout),
				Bookable:   c.policy.WithinWindow(day, now),
			})
		}
		day = c.policy.NextDay(day)
	}
	return dates
}
