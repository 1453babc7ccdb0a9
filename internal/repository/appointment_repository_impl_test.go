package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slotStart = time.Date(2026, time.October, 16, 3, 30, 0, 0, time.UTC)

func TestAppointmentRepository_FindByIDMissing(t *testing.T) {
	db, mock := mocks.NewGormDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	appointment, err := repo.FindByID(context.Background(), db, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, appointment)
}

func TestAppointmentRepository_FindActiveByDoctor(t *testing.T) {
	db, mock := mocks.NewGormDB(t)
	repo := NewAppointmentRepository()
	doctorID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "doctor_id", "patient_name", "appointment_at", "status"}).
		AddRow(uuid.NewString(), doctorID.String(), "Asha", slotStart, "scheduled").
		AddRow(uuid.NewString(), doctorID.String(), "Ravi", slotStart.Add(30*time.Minute), "confirmed")
	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE doctor_id = \$1 AND appointment_at >= \$2 AND appointment_at < \$3 AND status NOT IN \(\$4,\$5\) ORDER BY appointment_at ASC`).
		WithArgs(doctorID, slotStart, slotStart.Add(24*time.Hour), entity.AppointmentStatusCancelled, entity.AppointmentStatusNoShow).
		WillReturnRows(rows)

	appointments, err := repo.FindActiveByDoctor(context.Background(), db, doctorID, slotStart, slotStart.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, appointments, 2)
	assert.Equal(t, entity.AppointmentStatusConfirmed, appointments[1].Status)
}

func TestAppointmentRepository_CountActiveForPatient(t *testing.T) {
	db, mock := mocks.NewGormDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments" WHERE .*patient_phone = \$1.*status NOT IN`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountActiveForPatient(context.Background(), db, "9876543210", uuid.New(), slotStart, slotStart.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestAppointmentRepository_UpdateStatusIsCompareAndSet(t *testing.T) {
	db, mock := mocks.NewGormDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectExec(`UPDATE "appointments" SET .*"status"=.*WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.UpdateStatus(context.Background(), db, uuid.New(), entity.AppointmentStatusScheduled, entity.AppointmentStatusConfirmed, time.Now())
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestAppointmentRepository_Reschedule(t *testing.T) {
	db, mock := mocks.NewGormDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectExec(`UPDATE "appointments" SET .*"appointment_at"=.*WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := repo.Reschedule(context.Background(), db, uuid.New(), entity.AppointmentStatusConfirmed, slotStart, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}

func TestAppointmentRepository_FindAllFilters(t *testing.T) {
	db, mock := mocks.NewGormDB(t)
	repo := NewAppointmentRepository()
	doctorID := uuid.New()
	to := slotStart.Add(24 * time.Hour)

	mock.ExpectQuery(`SELECT \* FROM "appointments" WHERE doctor_id = \$1 AND status = \$2 AND appointment_at < \$3 ORDER BY appointment_at ASC`).
		WithArgs(doctorID, entity.AppointmentStatusCancelled, to).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	appointments, err := repo.FindAll(context.Background(), db, &entity.AppointmentFilter{DoctorID: &doctorID, Status: entity.AppointmentStatusCancelled, To: &to})
	require.NoError(t, err)
	assert.Empty(t, appointments)
}

func TestAppointmentRepository_CreatePropagatesError(t *testing.T) {
	db, mock := mocks.NewGormDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectQuery(`INSERT INTO "appointments"`).WillReturnError(errors.New("unique violation"))

	err := repo.Create(context.Background(), db, &entity.Appointment{ID: uuid.New(), DoctorID: uuid.New(), AppointmentAt: slotStart, Status: entity.AppointmentStatusScheduled})
	assert.Error(t, err)
}
