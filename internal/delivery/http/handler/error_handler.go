package handler

import (
	"errors"
	"net/http"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/pkg/apperror"
	"medical-appointment-booking/pkg/response"
)

func writeAppError(w http.ResponseWriter, err error, fallback string) {
	response.AppError(w, err, fallback)
}

// writeAppointmentFailure renders a failed booking or status change as an
// AppointmentResult so clients can branch on code.
func writeAppointmentFailure(w http.ResponseWriter, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindInternal {
		response.JSON(w, http.StatusInternalServerError, dto.AppointmentResult{
			Success: false,
			Error:   "Failed to process appointment",
			Code:    "internal",
		})
		return
	}
	response.JSON(w, response.StatusFor(appErr.Kind), dto.AppointmentResult{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Code,
	})
}
