package entity

import "fmt"

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDAdmin   = 1
	RoleIDDoctor  = 2
	RoleIDPatient = 3
)

// RoleNames constants
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// ActorRole is the closed set of roles that may act on an appointment.
type ActorRole uint8

const (
	ActorUnknown ActorRole = iota
	ActorAdmin
	ActorDoctor
	ActorPatient
)

func (r ActorRole) String() string {
	switch r {
	case ActorAdmin:
		return RoleAdmin
	case ActorDoctor:
		return RoleDoctor
	case ActorPatient:
		return RolePatient
	default:
		return "unknown"
	}
}

func (r ActorRole) IsAdmin() bool {
	return r == ActorAdmin
}

// RoleID returns the roles table id for r.
func (r ActorRole) RoleID() int {
	switch r {
	case ActorAdmin:
		return RoleIDAdmin
	case ActorDoctor:
		return RoleIDDoctor
	case ActorPatient:
		return RoleIDPatient
	default:
		return 0
	}
}

// ActorFromRoleID maps a roles table id to an ActorRole.
func ActorFromRoleID(id int) ActorRole {
	switch id {
	case RoleIDAdmin:
		return ActorAdmin
	case RoleIDDoctor:
		return ActorDoctor
	case RoleIDPatient:
		return ActorPatient
	default:
		return ActorUnknown
	}
}

// ParseActorRole parses "admin", "doctor" or "patient".
func ParseActorRole(s string) (ActorRole, error) {
	switch s {
	case RoleAdmin:
		return ActorAdmin, nil
	case RoleDoctor:
		return ActorDoctor, nil
	case RolePatient:
		return ActorPatient, nil
	default:
		return ActorUnknown, fmt.Errorf("unknown actor role %q", s)
	}
}
