package converter

import (
	"time"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"

	"github.com/google/uuid"
)

func CalendarDateToResponse(d entity.CalendarDate) dto.CalendarDateResponse {
	return dto.CalendarDateResponse{
		Date:       d.Date.Format("2006-01-02"),
		ISOInstant: d.ISOInstant,
		Label:      d.Label,
		Bookable:   d.Bookable,
	}
}

func CalendarDatesToResponses(dates []entity.CalendarDate) []dto.CalendarDateResponse {
	responses := make([]dto.CalendarDateResponse, len(dates))
	for i, d := range dates {
		responses[i] = CalendarDateToResponse(d)
	}
	return responses
}

// SlotToResponse renders start and end as RFC3339 instants and labels the
// slot with its clinic-local start time.
func SlotToResponse(s entity.Slot, loc *time.Location) dto.SlotResponse {
	return dto.SlotResponse{
		Start: s.Start.UTC().Format(time.RFC3339),
		End:   s.End.UTC().Format(time.RFC3339),
		Label: s.Start.In(loc).Format("15:04"),
	}
}

func SlotsToResponses(slots []entity.Slot, loc *time.Location) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i, s := range slots {
		responses[i] = SlotToResponse(s, loc)
	}
	return responses
}

func AvailabilityToResponse(a *entity.DayAvailability, doctorID uuid.UUID, loc *time.Location) *dto.AvailabilityResponse {
	if a == nil {
		return nil
	}

	return &dto.AvailabilityResponse{
		DoctorID: doctorID,
		Date:     a.Date,
		Free:     SlotsToResponses(a.Free, loc),
		Occupied: SlotsToResponses(a.Occupied, loc),
	}
}
