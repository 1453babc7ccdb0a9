package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/mocks"
	"medical-appointment-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuditLogFixture(t *testing.T) (AuditLogUsecase, *mocks.AuditLogRepository) {
	db, _ := mocks.NewGormDB(t)
	repo := &mocks.AuditLogRepository{}
	return NewAuditLogUsecase(db, mocks.NewLogger(), repo, ist), repo
}

func TestGetAllAuditLogs_DefaultFilter(t *testing.T) {
	uc, repo := newAuditLogFixture(t)
	userID := uuid.New()
	repo.On("FindAll", &entity.AuditLogFilter{Limit: 100}).Return([]entity.AuditLog{
		{ID: 2, UserID: &userID, Action: entity.AuditActionAppointmentCreate, User: &entity.User{ID: userID, Email: "a@example.com"},
			Metadata: entity.JSON{"entity": entity.AuditEntityAppointment, "entity_id": "apt-1"}},
		{ID: 1, Action: entity.AuditActionAdminBootstrap},
	}, nil)

	list, err := uc.GetAllAuditLogs(context.Background(), &dto.AuditLogQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	require.NotNil(t, list.Logs[0].User)
	assert.Equal(t, entity.AuditEntityAppointment, list.Logs[0].Entity)
	assert.Equal(t, "apt-1", list.Logs[0].EntityID)
	assert.Nil(t, list.Logs[1].User)
	assert.Empty(t, list.Logs[1].Entity)
}

func TestGetAllAuditLogs_ParsesQuery(t *testing.T) {
	uc, repo := newAuditLogFixture(t)
	userID := uuid.New()
	repo.On("FindAll", mock.MatchedBy(func(f *entity.AuditLogFilter) bool {
		return f.UserID != nil && *f.UserID == userID &&
			f.Action == entity.AuditActionAppointmentStatus &&
			f.Since != nil && f.Since.Equal(time.Date(2026, time.October, 1, 0, 0, 0, 0, ist)) &&
			f.Limit == 20 && !f.Ascending
	})).Return([]entity.AuditLog{}, nil)

	_, err := uc.GetAllAuditLogs(context.Background(), &dto.AuditLogQuery{
		UserID: userID.String(),
		Action: entity.AuditActionAppointmentStatus,
		Since:  "2026-10-01",
		Limit:  "20",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetAllAuditLogs_RejectsBadQuery(t *testing.T) {
	uc, repo := newAuditLogFixture(t)

	for _, q := range []*dto.AuditLogQuery{
		{UserID: "42"},
		{Limit: "0"},
		{Limit: "501"},
		{Limit: "ten"},
		{Since: "01/10/2026"},
	} {
		_, err := uc.GetAllAuditLogs(context.Background(), q)
		assert.True(t, apperror.Is(err, apperror.KindValidation), "query %+v", q)
	}
	repo.AssertNotCalled(t, "FindAll", mock.Anything)
}

func TestGetAuditLog(t *testing.T) {
	uc, repo := newAuditLogFixture(t)
	repo.On("FindByID", int64(1)).Return(&entity.AuditLog{ID: 1, Action: entity.AuditActionAdminBootstrap}, nil)
	repo.On("FindByID", int64(99)).Return(nil, nil)
	repo.On("FindByID", int64(7)).Return(nil, errors.New("connection reset"))

	log, err := uc.GetAuditLog(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditActionAdminBootstrap, log.Action)

	_, err = uc.GetAuditLog(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)

	_, err = uc.GetAuditLog(context.Background(), 7)
	assert.True(t, apperror.Is(err, apperror.KindInternal))
}

func TestGetAppointmentHistory(t *testing.T) {
	uc, repo := newAuditLogFixture(t)
	appointmentID := uuid.New()
	missingID := uuid.New()

	repo.On("FindAll", &entity.AuditLogFilter{
		Entity:    entity.AuditEntityAppointment,
		EntityID:  appointmentID.String(),
		Ascending: true,
	}).Return([]entity.AuditLog{
		{ID: 3, Action: entity.AuditActionAppointmentCreate},
		{ID: 8, Action: entity.AuditActionAppointmentStatus},
	}, nil)
	repo.On("FindAll", mock.MatchedBy(func(f *entity.AuditLogFilter) bool {
		return f.EntityID == missingID.String()
	})).Return([]entity.AuditLog{}, nil)

	history, err := uc.GetAppointmentHistory(context.Background(), appointmentID)
	require.NoError(t, err)
	require.Equal(t, 2, history.Total)
	assert.Equal(t, entity.AuditActionAppointmentCreate, history.Logs[0].Action)

	_, err = uc.GetAppointmentHistory(context.Background(), missingID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}
