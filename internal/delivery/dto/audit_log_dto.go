package dto

import (
	"time"

	"medical-appointment-booking/internal/domain/entity"
)

// AuditLogQuery carries the raw admin filter parameters. Since is YYYY-MM-DD
// in the clinic timezone.
type AuditLogQuery struct {
	UserID   string
	Action   string
	Entity   string
	EntityID string
	Since    string
	Limit    string
}

type AuditLogResponse struct {
	ID        int64         `json:"id"`
	User      *UserResponse `json:"user,omitempty"`
	Action    string        `json:"action"`
	Entity    string        `json:"entity,omitempty"`
	EntityID  string        `json:"entity_id,omitempty"`
	Metadata  entity.JSON   `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
