package repository

import (
	"context"
	"testing"

	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogRepository_FindAllByEntity(t *testing.T) {
	db, mock := mocks.NewGormDB(t)
	repo := NewAuditLogRepository()

	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE metadata->>'entity' = \$1 AND metadata->>'entity_id' = \$2 ORDER BY created_at ASC, id ASC`).
		WithArgs(entity.AuditEntityAppointment, "apt-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "action", "metadata"}).
			AddRow(1, entity.AuditActionAppointmentCreate, []byte(`{"entity":"appointment","entity_id":"apt-1"}`)))

	logs, err := repo.FindAll(context.Background(), db, &entity.AuditLogFilter{
		Entity:    entity.AuditEntityAppointment,
		EntityID:  "apt-1",
		Ascending: true,
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "apt-1", logs[0].EntityID())
	assert.Equal(t, entity.AuditEntityAppointment, logs[0].Entity())
}

func TestAuditLogRepository_FindAllNewestFirstWithLimit(t *testing.T) {
	db, mock := mocks.NewGormDB(t)
	repo := NewAuditLogRepository()

	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE action = \$1 ORDER BY created_at DESC, id DESC LIMIT \$2`).
		WithArgs(entity.AuditActionUserLogin, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	logs, err := repo.FindAll(context.Background(), db, &entity.AuditLogFilter{Action: entity.AuditActionUserLogin, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAuditLogRepository_FindByIDMissing(t *testing.T) {
	db, mock := mocks.NewGormDB(t)
	repo := NewAuditLogRepository()

	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	log, err := repo.FindByID(context.Background(), db, 404)
	require.NoError(t, err)
	assert.Nil(t, log)
}
