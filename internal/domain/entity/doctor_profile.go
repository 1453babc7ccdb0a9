package entity

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	Specialization    string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Qualification     string          `gorm:"type:varchar(255)" json:"qualification,omitempty"`
	Phone             string          `gorm:"type:varchar(20)" json:"phone,omitempty"`
	YearsOfExperience int             `gorm:"not null;default:0" json:"years_of_experience"`
	AvailableDays     Weekdays        `gorm:"type:varchar(100)" json:"available_days"`
	ConsultationFee   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"consultation_fee"`
	Biography         string          `gorm:"type:text" json:"biography,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// IsActive reports whether the doctor's account is active.
func (d *DoctorProfile) IsActive() bool {
	return d.User.Active()
}

// WorksOn reports whether the doctor sees patients on day. A doctor with no
// configured days follows the clinic calendar alone.
func (d *DoctorProfile) WorksOn(day time.Weekday) bool {
	if len(d.AvailableDays) == 0 {
		return true
	}
	for _, w := range d.AvailableDays {
		if w == day {
			return true
		}
	}
	return false
}

// Weekdays is stored as a comma separated list of weekday names.
type Weekdays []time.Weekday

func (w Weekdays) Value() (driver.Value, error) {
	names := make([]string, len(w))
	for i, d := range w {
		names[i] = strings.ToLower(d.String())
	}
	return strings.Join(names, ","), nil
}

func (w *Weekdays) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*w = nil
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return errors.New("failed to scan weekdays value")
	}

	parsed, err := ParseWeekdayNames(raw)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// Strings returns the weekday names in stored order.
func (w Weekdays) Strings() []string {
	names := make([]string, len(w))
	for i, d := range w {
		names[i] = d.String()
	}
	return names
}

// ParseWeekdayNames parses full weekday names, case-insensitively.
func ParseWeekdayNames(raw string) (Weekdays, error) {
	var days Weekdays
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.EqualFold(d.String(), name) {
				days = append(days, d)
				found = true
				break
			}
		}
		if !found {
			return nil, errors.New("unknown weekday: " + name)
		}
	}
	return days, nil
}
