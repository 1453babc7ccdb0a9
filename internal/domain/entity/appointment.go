package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled   AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusNoShow      AppointmentStatus = "no-show"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
)

// ParseAppointmentStatus validates s against the six known statuses.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(s) {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow, AppointmentStatusRescheduled:
		return AppointmentStatus(s), nil
	default:
		return "", fmt.Errorf("unknown appointment status: %s", s)
	}
}

var allowedTransitions = map[AppointmentStatus]map[AppointmentStatus]bool{
	AppointmentStatusScheduled: {
		AppointmentStatusConfirmed:   true,
		AppointmentStatusCancelled:   true,
		AppointmentStatusRescheduled: true,
	},
	AppointmentStatusConfirmed: {
		AppointmentStatusCompleted: true,
		AppointmentStatusCancelled: true,
		AppointmentStatusNoShow:    true,
	},
	AppointmentStatusRescheduled: {
		AppointmentStatusConfirmed: true,
		AppointmentStatusCancelled: true,
	},
	AppointmentStatusCompleted: {},
	AppointmentStatusCancelled: {},
	AppointmentStatusNoShow:    {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to AppointmentStatus) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// IsTerminal reports whether no further transition is permitted from s.
func (s AppointmentStatus) IsTerminal() bool {
	next, ok := allowedTransitions[s]
	return ok && len(next) == 0
}

// OccupiesSlot reports whether an appointment in status s blocks its slot.
func (s AppointmentStatus) OccupiesSlot() bool {
	return s != AppointmentStatusCancelled && s != AppointmentStatusNoShow
}

// FreeingStatuses are the statuses that release a slot for re-booking.
var FreeingStatuses = []AppointmentStatus{AppointmentStatusCancelled, AppointmentStatusNoShow}

// Appointment represents a patient appointment with a doctor
type Appointment struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     *uuid.UUID        `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	HospitalID    string            `gorm:"type:varchar(32);index" json:"hospital_id,omitempty"`
	PatientName   string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientPhone  string            `gorm:"type:varchar(20);not null;index" json:"patient_phone"`
	PatientEmail  string            `gorm:"type:varchar(255)" json:"patient_email,omitempty"`
	Age           *int              `json:"age,omitempty"`
	Gender        string            `gorm:"type:varchar(10)" json:"gender,omitempty"`
	DoctorID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	DoctorName    string            `gorm:"type:varchar(255);not null" json:"doctor_name"`
	Specialty     string            `gorm:"type:varchar(100)" json:"specialty"`
	AppointmentAt time.Time         `gorm:"type:timestamptz;not null;index" json:"appointment_at"`
	Status        AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	Reason        string            `gorm:"type:text" json:"reason,omitempty"`
	Notes         string            `gorm:"type:text" json:"notes,omitempty"`
	Room          string            `gorm:"type:varchar(50)" json:"room,omitempty"`
	MedicalInfo   JSON              `gorm:"type:jsonb" json:"medical_info,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     *time.Time        `json:"updated_at,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsActive reports whether the appointment still holds its slot.
func (a *Appointment) IsActive() bool {
	return a.Status.OccupiesSlot()
}

// IsOwnedByPatient checks if the appointment was booked by the given patient
func (a *Appointment) IsOwnedByPatient(patientID uuid.UUID) bool {
	return a.PatientID != nil && *a.PatientID == patientID
}

// AppointmentFilter is a domain-level filter for listing appointments.
type AppointmentFilter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    AppointmentStatus
	From      *time.Time
	To        *time.Time
}
