package service

import "medical-appointment-booking/pkg/apperror"

var (
	ErrNotAllowedWeekday  = apperror.Validation("not_allowed_weekday", "appointments can only be booked on allowed weekdays")
	ErrSlotInPast         = apperror.Validation("in_past", "requested date must be after today")
	ErrWindowExceeded     = apperror.Validation("window_exceeded", "requested date is beyond the advance booking window")
	ErrOffGrid            = apperror.Validation("off_grid", "requested time is not a valid slot start")
	ErrDoctorOffDay       = apperror.Validation("doctor_unavailable", "doctor does not see patients on that day")
	ErrDuplicateBooking   = apperror.Validation("duplicate_booking", "patient already has an active booking with this doctor on that date")
	ErrPatientNameMissing = apperror.Validation("invalid_name", "patient name is required")
	ErrInvalidPhone       = apperror.Validation("invalid_phone", "patient phone must be exactly 10 digits")
	ErrInvalidEmail       = apperror.Validation("invalid_email", "patient email is not a valid address")
	ErrCancellationCutoff = apperror.Validation("cancellation_cutoff", "appointments cannot be cancelled this close to their start time")
	ErrUnknownActor       = apperror.Validation("unknown_actor", "actor role is not recognised")

	ErrSlotTaken = apperror.Conflict("slot_taken", "the requested slot is already booked")

	ErrDoctorNotFound = apperror.NotFound("doctor_not_found", "doctor not found")

	ErrPatientAction = apperror.Forbidden("patient_action", "patients may only cancel or reschedule their appointments")

	ErrInvalidTransition = apperror.InvalidTransition("invalid_transition", "status transition is not allowed")
)
