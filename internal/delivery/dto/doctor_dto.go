package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateDoctorRequest struct {
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"required,min=6"`
	FullName          string   `json:"full_name" validate:"required,min=2"`
	Specialization    string   `json:"specialization" validate:"required,max=100"`
	Qualification     string   `json:"qualification" validate:"omitempty,max=255"`
	Phone             string   `json:"phone" validate:"omitempty,phone10"`
	YearsOfExperience int      `json:"years_of_experience" validate:"gte=0,lte=80"`
	AvailableDays     []string `json:"available_days" validate:"omitempty,dive,required"`
	ConsultationFee   string   `json:"consultation_fee" validate:"omitempty,numeric"`
	Biography         string   `json:"biography" validate:"omitempty"`
}

type UpdateDoctorRequest struct {
	Email             string   `json:"email" validate:"omitempty,email"`
	Password          string   `json:"password" validate:"omitempty,min=6"`
	FullName          string   `json:"full_name" validate:"omitempty,min=2"`
	Specialization    string   `json:"specialization" validate:"omitempty,max=100"`
	Qualification     string   `json:"qualification" validate:"omitempty,max=255"`
	Phone             string   `json:"phone" validate:"omitempty,phone10"`
	YearsOfExperience *int     `json:"years_of_experience" validate:"omitempty,gte=0,lte=80"`
	AvailableDays     []string `json:"available_days" validate:"omitempty,dive,required"`
	ConsultationFee   string   `json:"consultation_fee" validate:"omitempty,numeric"`
	Biography         string   `json:"biography" validate:"omitempty"`
	IsActive          *bool    `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID                uuid.UUID       `json:"id"`
	Email             string          `json:"email,omitempty"`
	FullName          string          `json:"full_name"`
	Specialization    string          `json:"specialization"`
	Qualification     string          `json:"qualification,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	YearsOfExperience int             `json:"years_of_experience"`
	AvailableDays     []string        `json:"available_days"`
	ConsultationFee   decimal.Decimal `json:"consultation_fee"`
	Biography         string          `json:"biography,omitempty"`
	IsActive          *bool           `json:"is_active,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
