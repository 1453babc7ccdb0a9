package converter

import (
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
)

// DoctorProfileToResponse converts a DoctorProfile entity to DoctorResponse DTO
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	days := profile.AvailableDays.Strings()
	return &dto.DoctorResponse{
		ID:                profile.UserID,
		Email:             profile.User.Email,
		FullName:          profile.User.FullName,
		Specialization:    profile.Specialization,
		Qualification:     profile.Qualification,
		Phone:             profile.Phone,
		YearsOfExperience: profile.YearsOfExperience,
		AvailableDays:     days,
		ConsultationFee:   profile.ConsultationFee,
		Biography:         profile.Biography,
		IsActive:          profile.User.IsActive,
	}
}

// DoctorProfilesToResponses converts a slice of DoctorProfile entities to slice of DoctorResponse DTOs
func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorProfileToResponse(&profiles[i])
	}
	return responses
}

// DoctorProfileToPublicResponse drops contact and account fields.
func DoctorProfileToPublicResponse(profile *entity.DoctorProfile) dto.DoctorResponse {
	resp := *DoctorProfileToResponse(profile)
	resp.Email = ""
	resp.Phone = ""
	resp.IsActive = nil
	return resp
}
