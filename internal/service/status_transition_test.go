package service

import (
	"testing"
	"time"

	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allActors = []entity.ActorRole{entity.ActorAdmin, entity.ActorDoctor, entity.ActorPatient}

func appointmentAt(start time.Time, status entity.AppointmentStatus) *entity.Appointment {
	return &entity.Appointment{AppointmentAt: start.UTC(), Status: status}
}

func TestStatusTransition_Legal(t *testing.T) {
	m := NewStatusTransitionManager(24 * time.Hour)
	now := wednesday
	start := at(2026, time.October, 16, 10, 0)

	legal := map[entity.AppointmentStatus][]entity.AppointmentStatus{
		entity.AppointmentStatusScheduled:   {entity.AppointmentStatusConfirmed, entity.AppointmentStatusCancelled, entity.AppointmentStatusRescheduled},
		entity.AppointmentStatusConfirmed:   {entity.AppointmentStatusCompleted, entity.AppointmentStatusCancelled, entity.AppointmentStatusNoShow},
		entity.AppointmentStatusRescheduled: {entity.AppointmentStatusConfirmed, entity.AppointmentStatusCancelled},
	}

	for from, targets := range legal {
		for _, to := range targets {
			for _, actor := range allActors {
				if actor == entity.ActorPatient && !patientMayRequest(to) {
					continue
				}
				a := appointmentAt(start, from)
				err := m.Transition(a, to, actor, now)
				require.NoError(t, err, "%s -> %s by %s", from, to, actor)
				assert.Equal(t, to, a.Status)
				require.NotNil(t, a.UpdatedAt)
				assert.True(t, a.UpdatedAt.Equal(now))
			}
		}
	}
}

func patientMayRequest(to entity.AppointmentStatus) bool {
	return to == entity.AppointmentStatusCancelled || to == entity.AppointmentStatusRescheduled
}

func TestStatusTransition_PatientLimitedToCancelAndReschedule(t *testing.T) {
	m := NewStatusTransitionManager(24 * time.Hour)
	start := at(2026, time.October, 16, 10, 0)

	a := appointmentAt(start, entity.AppointmentStatusScheduled)
	err := m.Transition(a, entity.AppointmentStatusConfirmed, entity.ActorPatient, wednesday)
	assert.ErrorIs(t, err, ErrPatientAction)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	assert.Equal(t, entity.AppointmentStatusScheduled, a.Status)

	a = appointmentAt(start, entity.AppointmentStatusConfirmed)
	assert.ErrorIs(t, m.Transition(a, entity.AppointmentStatusCompleted, entity.ActorPatient, wednesday), ErrPatientAction)
}

func TestStatusTransition_CompletedToScheduledRejectedForAll(t *testing.T) {
	m := NewStatusTransitionManager(24 * time.Hour)

	for _, actor := range allActors {
		a := appointmentAt(at(2026, time.October, 16, 10, 0), entity.AppointmentStatusCompleted)
		err := m.Transition(a, entity.AppointmentStatusScheduled, actor, wednesday)

		assert.ErrorIs(t, err, ErrInvalidTransition, actor.String())
		assert.Equal(t, apperror.KindInvalidTransition, apperror.KindOf(err))
		assert.Equal(t, entity.AppointmentStatusCompleted, a.Status)
		assert.Nil(t, a.UpdatedAt)
	}
}

func TestStatusTransition_TerminalStates(t *testing.T) {
	m := NewStatusTransitionManager(24 * time.Hour)
	terminal := []entity.AppointmentStatus{entity.AppointmentStatusCompleted, entity.AppointmentStatusCancelled, entity.AppointmentStatusNoShow}
	all := []entity.AppointmentStatus{
		entity.AppointmentStatusScheduled, entity.AppointmentStatusConfirmed, entity.AppointmentStatusCompleted,
		entity.AppointmentStatusCancelled, entity.AppointmentStatusNoShow, entity.AppointmentStatusRescheduled,
	}

	for _, from := range terminal {
		for _, to := range all {
			a := appointmentAt(at(2026, time.October, 16, 10, 0), from)
			assert.ErrorIs(t, m.Transition(a, to, entity.ActorAdmin, wednesday), ErrInvalidTransition)
		}
	}
}

func TestStatusTransition_CancellationCutoff(t *testing.T) {
	m := NewStatusTransitionManager(24 * time.Hour)
	start := at(2026, time.October, 16, 10, 0)

	tests := []struct {
		name    string
		now     time.Time
		actor   entity.ActorRole
		wantErr error
	}{
		{"patient well ahead", start.Add(-48 * time.Hour), entity.ActorPatient, nil},
		{"patient inside cutoff", start.Add(-23 * time.Hour), entity.ActorPatient, ErrCancellationCutoff},
		{"patient exactly at cutoff", start.Add(-24 * time.Hour), entity.ActorPatient, ErrCancellationCutoff},
		{"doctor inside cutoff", start.Add(-2 * time.Hour), entity.ActorDoctor, ErrCancellationCutoff},
		{"admin inside cutoff", start.Add(-2 * time.Hour), entity.ActorAdmin, nil},
		{"admin after start", start.Add(time.Hour), entity.ActorAdmin, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := appointmentAt(start, entity.AppointmentStatusScheduled)
			err := m.Transition(a, entity.AppointmentStatusCancelled, tt.actor, tt.now)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, entity.AppointmentStatusCancelled, a.Status)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, entity.AppointmentStatusScheduled, a.Status)
		})
	}
}

func TestStatusTransition_CutoffOnlyAppliesToCancel(t *testing.T) {
	m := NewStatusTransitionManager(24 * time.Hour)
	start := at(2026, time.October, 16, 10, 0)

	a := appointmentAt(start, entity.AppointmentStatusScheduled)
	require.NoError(t, m.Transition(a, entity.AppointmentStatusConfirmed, entity.ActorDoctor, start.Add(-time.Hour)))
}

func TestStatusTransition_UnknownActor(t *testing.T) {
	m := NewStatusTransitionManager(24 * time.Hour)
	a := appointmentAt(at(2026, time.October, 16, 10, 0), entity.AppointmentStatusScheduled)

	err := m.Transition(a, entity.AppointmentStatusConfirmed, entity.ActorUnknown, wednesday)
	assert.ErrorIs(t, err, ErrUnknownActor)
}
