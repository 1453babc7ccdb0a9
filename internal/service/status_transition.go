package service

import (
	"time"

	"medical-appointment-booking/internal/domain/entity"
)

// StatusTransitionManager guards appointment status changes.
type StatusTransitionManager struct {
	cutoff time.Duration
}

func NewStatusTransitionManager(cutoff time.Duration) *StatusTransitionManager {
	return &StatusTransitionManager{cutoff: cutoff}
}

func (m *StatusTransitionManager) Cutoff() time.Duration {
	return m.cutoff
}

// Check validates moving a to status `to` on behalf of actor without
// mutating it. Legality is checked first, so an illegal move reports
// ErrInvalidTransition whoever asks. Patients may then only cancel or
// reschedule, and non-admin cancellations are refused inside the cutoff
// window.
func (m *StatusTransitionManager) Check(a *entity.Appointment, to entity.AppointmentStatus, actor entity.ActorRole, now time.Time) error {
	if actor == entity.ActorUnknown {
		return ErrUnknownActor
	}
	if !entity.CanTransition(a.Status, to) {
		return ErrInvalidTransition.Withf("cannot move appointment from %s to %s", a.Status, to)
	}
	if actor == entity.ActorPatient && to != entity.AppointmentStatusCancelled && to != entity.AppointmentStatusRescheduled {
		return ErrPatientAction
	}
	if to == entity.AppointmentStatusCancelled && !actor.IsAdmin() && a.AppointmentAt.Sub(now) <= m.cutoff {
		return ErrCancellationCutoff.Withf("appointments cannot be cancelled within %s of their start", m.cutoff)
	}
	return nil
}

// Transition checks the change and, on success, sets the new status on a.
// On failure a is left untouched.
func (m *StatusTransitionManager) Transition(a *entity.Appointment, to entity.AppointmentStatus, actor entity.ActorRole, now time.Time) error {
	if err := m.Check(a, to, actor, now); err != nil {
		return err
	}

	updatedAt := now.UTC()
	a.Status = to
	a.UpdatedAt = &updatedAt
	return nil
}
