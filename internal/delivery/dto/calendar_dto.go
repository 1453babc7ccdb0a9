package dto

import "github.com/google/uuid"

type CalendarDateResponse struct {
	Date       string `json:"date"` // YYYY-MM-DD in clinic time
	ISOInstant string `json:"iso_instant"`
	Label      string `json:"label"`
	Bookable   bool   `json:"bookable"`
}

type CalendarResponse struct {
	Dates      []CalendarDateResponse `json:"dates"`
	WindowDays int                    `json:"window_days"`
	TimeZone   string                 `json:"time_zone"`
}

type SlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

type AvailabilityResponse struct {
	DoctorID uuid.UUID      `json:"doctor_id"`
	Date     string         `json:"date"`
	Free     []SlotResponse `json:"free"`
	Occupied []SlotResponse `json:"occupied"`
}

type DoctorCalendarDay struct {
	CalendarDateResponse
	FreeSlots  int `json:"free_slots"`
	TotalSlots int `json:"total_slots"`
}

// DoctorCalendarResponse lists each upcoming date with the doctor's free slot count.
type DoctorCalendarResponse struct {
	DoctorID   uuid.UUID           `json:"doctor_id"`
	DoctorName string              `json:"doctor_name"`
	Specialty  string              `json:"specialty"`
	Days       []DoctorCalendarDay `json:"days"`
}
