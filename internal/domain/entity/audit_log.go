package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog is one row of the audit trail. Metadata carries the entity name,
// its id and the old/new values of the change.
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Common audit actions
const (
	AuditActionUserLogin         = "user.login"
	AuditActionUserLogout        = "user.logout"
	AuditActionUserRegister      = "user.register"
	AuditActionAppointmentCreate = "appointment.create"
	AuditActionAppointmentStatus = "appointment.status"
	AuditActionAppointmentMove   = "appointment.reschedule"
	AuditActionDoctorCreate      = "doctor.create"
	AuditActionDoctorUpdate      = "doctor.update"
	AuditActionDoctorDelete      = "doctor.delete"
	AuditActionAdminBootstrap    = "admin.bootstrap"
	AuditActionProfileUpdate     = "profile.update"
)

// Audited entity names, stored under metadata.entity.
const (
	AuditEntityAppointment = "appointment"
	AuditEntityDoctor      = "doctor_profile"
	AuditEntityPatient     = "patient_profile"
	AuditEntityUser        = "user"
)

// AuditLogFilter narrows an audit query. Zero fields match everything.
type AuditLogFilter struct {
	UserID   *uuid.UUID
	Action   string
	Entity   string
	EntityID string
	Since    *time.Time
	Limit    int
	// Oldest first when set; newest first otherwise.
	Ascending bool
}

func (l *AuditLog) Entity() string {
	return l.metadataString("entity")
}

func (l *AuditLog) EntityID() string {
	return l.metadataString("entity_id")
}

func (l *AuditLog) metadataString(key string) string {
	v, _ := l.Metadata[key].(string)
	return v
}
