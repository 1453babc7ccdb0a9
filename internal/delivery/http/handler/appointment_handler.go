package handler

import (
	"net/http"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/usecase"
	"medical-appointment-booking/pkg/response"
	"medical-appointment-booking/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// GetCalendar lists the upcoming allowed booking dates
// @Summary Upcoming booking dates
// @Tags Appointments
// @Produce json
// @Success 200 {object} response.Response
// @Router /calendar [get]
func (h *AppointmentHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	calendar := h.appointmentUsecase.GetCalendar(r.Context())
	response.Success(w, http.StatusOK, "Calendar retrieved successfully", calendar)
}

// GetAvailability lists free and occupied slots of a doctor on one date
// @Summary Doctor availability
// @Tags Appointments
// @Produce json
// @Param id path string true "Doctor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Router /doctors/{id}/availability [get]
func (h *AppointmentHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "doctor")
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.Error(w, http.StatusBadRequest, "date query parameter is required", nil)
		return
	}

	availability, err := h.appointmentUsecase.GetAvailability(r.Context(), doctorID, date)
	if err != nil {
		writeAppError(w, err, "Failed to get availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}

// GetDoctorCalendar returns each upcoming date with the doctor's free slot count
// @Summary Doctor calendar overview
// @Tags Appointments
// @Produce json
// @Param id path string true "Doctor ID"
// @Success 200 {object} response.Response
// @Router /doctors/{id}/calendar [get]
func (h *AppointmentHandler) GetDoctorCalendar(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "doctor")
	if !ok {
		return
	}

	calendar, err := h.appointmentUsecase.GetDoctorCalendar(r.Context(), doctorID)
	if err != nil {
		writeAppError(w, err, "Failed to get doctor calendar")
		return
	}

	response.Success(w, http.StatusOK, "Doctor calendar retrieved successfully", calendar)
}

// CreateAppointment books a slot
// @Summary Book an appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAppointmentRequest true "Booking Request"
// @Success 201 {object} dto.AppointmentResult
// @Failure 400 {object} dto.AppointmentResult
// @Failure 409 {object} dto.AppointmentResult
// @Router /appointments [post]
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if !decodeAppointmentRequest(w, r, h.validator, &req) {
		return
	}

	result, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		writeAppointmentFailure(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, result)
}

// UpdateStatus moves an appointment to a new status
// @Summary Change appointment status
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentStatusRequest true "Status Request"
// @Success 200 {object} dto.AppointmentResult
// @Failure 409 {object} dto.AppointmentResult
// @Router /appointments/{id}/status [patch]
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := appointmentPathID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if !decodeAppointmentRequest(w, r, h.validator, &req) {
		return
	}

	result, err := h.appointmentUsecase.UpdateStatus(r.Context(), appointmentID, &req)
	if err != nil {
		writeAppointmentFailure(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), appointmentID)
	if err != nil {
		writeAppError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) ListMyAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.ListMyAppointments(r.Context())
	if err != nil {
		writeAppError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// ListDoctorAppointments returns the calling doctor's schedule, optionally for one date.
func (h *AppointmentHandler) ListDoctorAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.ListDoctorAppointments(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeAppError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	appointments, err := h.appointmentUsecase.ListAppointments(r.Context(), &dto.AppointmentQuery{
		DoctorID:  q.Get("doctor_id"),
		PatientID: q.Get("patient_id"),
		Status:    q.Get("status"),
		From:      q.Get("from"),
		To:        q.Get("to"),
	})
	if err != nil {
		writeAppError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}
