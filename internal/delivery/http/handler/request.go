package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"medical-appointment-booking/internal/delivery/http/middleware"
	"medical-appointment-booking/pkg/apperror"
	"medical-appointment-booking/pkg/response"
	"medical-appointment-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// decodeRequest reads a JSON body into req and runs struct validation. On
// failure it writes the 400 response and returns false.
func decodeRequest(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

var (
	errMalformedBody      = apperror.Validation("invalid_body", "request body is not valid JSON")
	errInvalidAppointment = apperror.Validation("invalid_appointment_id", "appointment id must be a UUID")
)

// decodeAppointmentRequest is decodeRequest for booking and status routes,
// whose failures are always an AppointmentResult with a string error.
func decodeAppointmentRequest(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeAppointmentFailure(w, errMalformedBody)
		return false
	}
	if err := v.Validate(req); err != nil {
		writeAppointmentFailure(w, apperror.Validation("invalid_request", joinFieldErrors(v.FormatValidationErrors(err))))
		return false
	}
	return true
}

// joinFieldErrors flattens per-field messages in field order.
func joinFieldErrors(fields map[string]string) string {
	if len(fields) == 0 {
		return "request is invalid"
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	messages := make([]string, len(names))
	for i, name := range names {
		messages[i] = fields[name]
	}
	return strings.Join(messages, "; ")
}

// pathID parses the {id} route variable as a UUID.
func pathID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+what+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// appointmentPathID is pathID for status changes, failing as an
// AppointmentResult.
func appointmentPathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeAppointmentFailure(w, errInvalidAppointment)
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated caller, writing 401 when the route
// was reached without one.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
	}
	return userID, ok
}
