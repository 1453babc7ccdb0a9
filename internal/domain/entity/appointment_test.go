package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(AppointmentStatusScheduled, AppointmentStatusConfirmed))
	assert.True(t, CanTransition(AppointmentStatusScheduled, AppointmentStatusRescheduled))
	assert.True(t, CanTransition(AppointmentStatusConfirmed, AppointmentStatusNoShow))
	assert.True(t, CanTransition(AppointmentStatusRescheduled, AppointmentStatusConfirmed))

	assert.False(t, CanTransition(AppointmentStatusCompleted, AppointmentStatusScheduled))
	assert.False(t, CanTransition(AppointmentStatusScheduled, AppointmentStatusCompleted))
	assert.False(t, CanTransition(AppointmentStatusRescheduled, AppointmentStatusRescheduled))
	assert.False(t, CanTransition(AppointmentStatus("unknown"), AppointmentStatusConfirmed))
}

func TestAppointmentStatus_Flags(t *testing.T) {
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
	assert.True(t, AppointmentStatusNoShow.IsTerminal())
	assert.False(t, AppointmentStatusRescheduled.IsTerminal())

	assert.True(t, AppointmentStatusConfirmed.OccupiesSlot())
	assert.True(t, AppointmentStatusCompleted.OccupiesSlot())
	assert.False(t, AppointmentStatusCancelled.OccupiesSlot())
	assert.False(t, AppointmentStatusNoShow.OccupiesSlot())
}

func TestParseAppointmentStatus(t *testing.T) {
	s, err := ParseAppointmentStatus("no-show")
	require.NoError(t, err)
	assert.Equal(t, AppointmentStatusNoShow, s)

	_, err = ParseAppointmentStatus("noshow")
	assert.Error(t, err)
}

func TestParseActorRole(t *testing.T) {
	r, err := ParseActorRole("admin")
	require.NoError(t, err)
	assert.True(t, r.IsAdmin())
	assert.Equal(t, RoleIDAdmin, r.RoleID())

	_, err = ParseActorRole("nurse")
	assert.Error(t, err)

	assert.Equal(t, ActorPatient, ActorFromRoleID(RoleIDPatient))
	assert.Equal(t, ActorUnknown, ActorFromRoleID(42))
	assert.Equal(t, "doctor", ActorDoctor.String())
}

func TestWeekdays_ValueScan(t *testing.T) {
	days := Weekdays{time.Monday, time.Friday}

	v, err := days.Value()
	require.NoError(t, err)
	assert.Equal(t, "monday,friday", v)

	var scanned Weekdays
	require.NoError(t, scanned.Scan([]byte("Monday, FRIDAY")))
	assert.Equal(t, days, scanned)
	assert.Equal(t, []string{"Monday", "Friday"}, scanned.Strings())

	assert.Error(t, scanned.Scan("someday"))
}

func TestUser_Active(t *testing.T) {
	inactive := false
	assert.True(t, (&User{}).Active())
	assert.False(t, (&User{IsActive: &inactive}).Active())
	assert.Equal(t, ActorDoctor, (&User{RoleID: RoleIDDoctor}).Actor())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "priya@example.com", NormalizeEmail("  Priya@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestDoctorProfileWorksOn(t *testing.T) {
	anyDay := &DoctorProfile{}
	assert.True(t, anyDay.WorksOn(time.Friday))

	mondays := &DoctorProfile{AvailableDays: Weekdays{time.Monday, time.Thursday}}
	assert.True(t, mondays.WorksOn(time.Thursday))
	assert.False(t, mondays.WorksOn(time.Friday))
}
