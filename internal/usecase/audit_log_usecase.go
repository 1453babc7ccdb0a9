package usecase

import (
	"context"
	"strconv"
	"time"

	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

var (
	ErrAuditLogNotFound  = apperror.NotFound("audit_log_not_found", "audit log not found")
	ErrInvalidAuditQuery = apperror.Validation("invalid_audit_query", "invalid audit log query")
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
	// GetAppointmentHistory lists every recorded change to one appointment,
	// oldest first.
	GetAppointmentHistory(ctx context.Context, appointmentID uuid.UUID) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
	loc          *time.Location
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
	loc *time.Location,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
		loc:          loc,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, query *dto.AuditLogQuery) (*dto.AuditLogListResponse, error) {
	filter, err := u.parseQuery(query)
	if err != nil {
		return nil, err
	}
	return u.find(ctx, filter)
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, apperror.Internal("failed to load audit log", err)
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}

// Creating an appointment always writes an audit row in the same
// transaction, so an empty history means the appointment never existed.
func (u *auditLogUsecase) GetAppointmentHistory(ctx context.Context, appointmentID uuid.UUID) (*dto.AuditLogListResponse, error) {
	history, err := u.find(ctx, &entity.AuditLogFilter{
		Entity:    entity.AuditEntityAppointment,
		EntityID:  appointmentID.String(),
		Ascending: true,
	})
	if err != nil {
		return nil, err
	}
	if history.Total == 0 {
		return nil, ErrAppointmentNotFound
	}
	return history, nil
}

func (u *auditLogUsecase) find(ctx context.Context, filter *entity.AuditLogFilter) (*dto.AuditLogListResponse, error) {
	logs, err := u.auditLogRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.WithField("entity_id", filter.EntityID).Warnf("Failed to find audit logs: %+v", err)
		return nil, apperror.Internal("failed to load audit logs", err)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) parseQuery(q *dto.AuditLogQuery) (*entity.AuditLogFilter, error) {
	filter := &entity.AuditLogFilter{Limit: defaultAuditLimit}
	if q == nil {
		return filter, nil
	}

	if q.UserID != "" {
		id, err := uuid.Parse(q.UserID)
		if err != nil {
			return nil, ErrInvalidAuditQuery.Withf("user_id must be a UUID")
		}
		filter.UserID = &id
	}
	if q.Since != "" {
		since, err := time.ParseInLocation("2006-01-02", q.Since, u.loc)
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.Since = &since
	}
	if q.Limit != "" {
		limit, err := strconv.Atoi(q.Limit)
		if err != nil || limit < 1 || limit > maxAuditLimit {
			return nil, ErrInvalidAuditQuery.Withf("limit must be between 1 and %d", maxAuditLimit)
		}
		filter.Limit = limit
	}
	filter.Action = q.Action
	filter.Entity = q.Entity
	filter.EntityID = q.EntityID
	return filter, nil
}
