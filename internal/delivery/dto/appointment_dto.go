package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// CreateAppointmentRequest carries only structural checks. Field rules such as
// phone format are applied by the booking validator in its fixed order.
type CreateAppointmentRequest struct {
	DoctorID     string `json:"doctor_id" validate:"required,uuid"`
	SlotStart    string `json:"slot_start" validate:"required"` // RFC3339
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
	PatientEmail string `json:"patient_email"`
	Age          *int   `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender       string `json:"gender" validate:"omitempty,oneof=male female other"`
	Reason       string `json:"reason" validate:"omitempty,max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status       string  `json:"status" validate:"required"`
	NewSlotStart *string `json:"new_slot_start"` // RFC3339, only with status rescheduled
}

// AppointmentQuery holds the admin list filters as received on the query
// string. Dates are YYYY-MM-DD in clinic time and To is inclusive.
type AppointmentQuery struct {
	DoctorID  string
	PatientID string
	Status    string
	From      string
	To        string
}

// Response DTOs

// AppointmentResult is the outcome of a booking or status change.
type AppointmentResult struct {
	Success       bool       `json:"success"`
	AppointmentID *uuid.UUID `json:"appointmentId,omitempty"`
	Error         string     `json:"error,omitempty"`
	Code          string     `json:"code,omitempty"`
}

type AppointmentResponse struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     *uuid.UUID `json:"patient_id,omitempty"`
	HospitalID    string     `json:"hospital_id,omitempty"`
	PatientName   string     `json:"patient_name"`
	PatientPhone  string     `json:"patient_phone"`
	PatientEmail  string     `json:"patient_email,omitempty"`
	Age           *int       `json:"age,omitempty"`
	Gender        string     `json:"gender,omitempty"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	DoctorName    string     `json:"doctor_name"`
	Specialty     string     `json:"specialty"`
	AppointmentAt time.Time  `json:"appointment_at"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Status        string     `json:"status"`
	Reason        string     `json:"reason,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Room          string     `json:"room,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
