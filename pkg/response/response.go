package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"medical-appointment-booking/pkg/apperror"
)

// Response is the envelope every endpoint writes.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// ErrorBody is the machine-readable part of a classified error.
type ErrorBody struct {
	Kind string `json:"kind"`
	Code string `json:"code"`
}

// JSON writes data with the given status.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{Success: true, Message: message, Data: data})
}

// Error writes a failure envelope; detail lands in the error field.
func Error(w http.ResponseWriter, statusCode int, message string, detail interface{}) {
	JSON(w, statusCode, Response{Success: false, Message: message, Error: detail})
}

// ValidationError reports per-field messages keyed by json name.
func ValidationError(w http.ResponseWriter, fields interface{}) {
	Error(w, http.StatusBadRequest, "Validation failed", fields)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, orDefault(message, http.StatusUnauthorized), nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, orDefault(message, http.StatusForbidden), nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, orDefault(message, http.StatusInternalServerError), nil)
}

func orDefault(message string, status int) string {
	if message == "" {
		return http.StatusText(status)
	}
	return message
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict, apperror.KindInvalidTransition:
		return http.StatusConflict
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// AppError renders a classified error. Internal and unclassified errors are
// written with the fallback message and never expose their cause.
func AppError(w http.ResponseWriter, err error, fallback string) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperror.KindInternal {
		InternalServerError(w, fallback)
		return
	}
	Error(w, StatusFor(appErr.Kind), appErr.Message, ErrorBody{
		Kind: appErr.Kind.String(),
		Code: appErr.Code,
	})
}
