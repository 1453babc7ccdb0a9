package converter

import (
	"time"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse
// DTO. Date and Time are rendered in the clinic time zone loc.
func AppointmentToResponse(a *entity.Appointment, loc *time.Location) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	local := a.AppointmentAt.In(loc)
	return &dto.AppointmentResponse{
		ID:            a.ID,
		PatientID:     a.PatientID,
		HospitalID:    a.HospitalID,
		PatientName:   a.PatientName,
		PatientPhone:  a.PatientPhone,
		PatientEmail:  a.PatientEmail,
		Age:           a.Age,
		Gender:        a.Gender,
		DoctorID:      a.DoctorID,
		DoctorName:    a.DoctorName,
		Specialty:     a.Specialty,
		AppointmentAt: a.AppointmentAt.UTC(),
		Date:          local.Format("2006-01-02"),
		Time:          local.Format("15:04"),
		Status:        string(a.Status),
		Reason:        a.Reason,
		Notes:         a.Notes,
		Room:          a.Room,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities
func AppointmentsToResponses(appointments []entity.Appointment, loc *time.Location) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i], loc)
	}
	return responses
}
