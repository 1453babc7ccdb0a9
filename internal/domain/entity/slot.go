package entity

import "time"

// Slot is a fixed-duration bookable unit of a day's grid. Slots are derived
// on demand and never persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartsAt reports whether t is the start of this slot.
func (s Slot) StartsAt(t time.Time) bool {
	return s.Start.Equal(t)
}

// CalendarDate is one bookable day produced by the slot calendar.
type CalendarDate struct {
	Date       time.Time `json:"-"`
	ISOInstant string    `json:"iso_instant"`
	Label      string    `json:"label"`
	Bookable   bool      `json:"bookable"`
}

// DayAvailability splits a day's grid into free and occupied slots.
type DayAvailability struct {
	DoctorID string `json:"doctor_id"`
	Date     string `json:"date"`
	Free     []Slot `json:"free"`
	Occupied []Slot `json:"occupied"`
}
