package usecase

import (
	"context"
	"time"

	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/delivery/http/middleware"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/internal/service"
	"medical-appointment-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrInvalidDoctorID      = apperror.Validation("invalid_doctor_id", "doctor id must be a UUID")
	ErrInvalidSlotStart     = apperror.Validation("invalid_slot_start", "slot start must be an RFC3339 timestamp")
	ErrInvalidPatientID     = apperror.Validation("invalid_patient_id", "patient id must be a UUID")
	ErrInvalidDate          = apperror.Validation("invalid_date", "date must use the format YYYY-MM-DD")
	ErrUnknownStatus        = apperror.Validation("unknown_status", "unknown appointment status")
	ErrSameSlot             = apperror.Validation("same_slot", "new slot is the appointment's current slot")
	ErrUnexpectedNewSlot    = apperror.Validation("unexpected_new_slot", "a new slot can only be given when rescheduling")
	ErrAppointmentNotFound  = apperror.NotFound("appointment_not_found", "appointment not found")
	ErrAppointmentForbidden = apperror.Forbidden("not_your_appointment", "appointment belongs to another user")
	ErrPatientAction        = service.ErrPatientAction
	ErrStatusChanged        = apperror.Conflict("status_changed", "appointment was modified concurrently, reload and retry")
)

// Upper bound on concurrent availability lookups for one calendar overview.
const calendarFanOut = 4

type AppointmentUsecase interface {
	GetCalendar(ctx context.Context) *dto.CalendarResponse
	GetAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
	GetDoctorCalendar(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorCalendarResponse, error)
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResult, error)
	UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResult, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	ListDoctorAppointments(ctx context.Context, date string) (*dto.AppointmentListResponse, error)
	ListAppointments(ctx context.Context, query *dto.AppointmentQuery) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	policy             *service.BookingPolicy
	calendar           *service.SlotCalendar
	availability       service.AvailabilityChecker
	bookingValidator   service.BookingValidator
	transitions        *service.StatusTransitionManager
	auditService       service.AuditService
	appointmentRepo    repository.AppointmentRepository
	patientProfileRepo repository.PatientProfileRepository
	now                service.Clock
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	policy *service.BookingPolicy,
	calendar *service.SlotCalendar,
	availability service.AvailabilityChecker,
	bookingValidator service.BookingValidator,
	transitions *service.StatusTransitionManager,
	auditService service.AuditService,
	appointmentRepo repository.AppointmentRepository,
	patientProfileRepo repository.PatientProfileRepository,
	now service.Clock,
) AppointmentUsecase {
	if now == nil {
		now = time.Now
	}
	return &appointmentUsecase{
		db:                 db,
		log:                log,
		policy:             policy,
		calendar:           calendar,
		availability:       availability,
		bookingValidator:   bookingValidator,
		transitions:        transitions,
		auditService:       auditService,
		appointmentRepo:    appointmentRepo,
		patientProfileRepo: patientProfileRepo,
		now:                now,
	}
}

// actorFromContext reads the caller set by the auth middleware.
func actorFromContext(ctx context.Context) (uuid.UUID, entity.ActorRole) {
	userID, _ := middleware.GetUserIDFromContext(ctx)
	actor, _ := middleware.ActorFromContext(ctx)
	return userID, actor
}

func (u *appointmentUsecase) GetCalendar(ctx context.Context) *dto.CalendarResponse {
	return &dto.CalendarResponse{
		Dates:      converter.CalendarDatesToResponses(u.calendar.Generate(u.now())),
		WindowDays: u.policy.Config().AdvanceWindowDays,
		TimeZone:   u.policy.Location().String(),
	}
}

func (u *appointmentUsecase) GetAvailability(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	day, err := time.ParseInLocation("2006-01-02", date, u.policy.Location())
	if err != nil {
		return nil, ErrInvalidDate
	}

	availability, err := u.availability.Check(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}
	return converter.AvailabilityToResponse(availability, doctorID, u.policy.Location()), nil
}

func (u *appointmentUsecase) GetDoctorCalendar(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorCalendarResponse, error) {
	doctor, err := u.availability.Doctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	dates := u.calendar.Generate(u.now())
	days := make([]dto.DoctorCalendarDay, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(calendarFanOut)
	for i, d := range dates {
		i, d := i, d
		g.Go(func() error {
			availability, err := u.availability.Check(gctx, doctorID, d.Date)
			if err != nil {
				return err
			}
			days[i] = dto.DoctorCalendarDay{
				CalendarDateResponse: converter.CalendarDateToResponse(d),
				FreeSlots:            len(availability.Free),
				TotalSlots:           len(availability.Free) + len(availability.Occupied),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dto.DoctorCalendarResponse{
		DoctorID:   doctorID,
		DoctorName: doctor.User.FullName,
		Specialty:  doctor.Specialization,
		Days:       days,
	}, nil
}

func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResult, error) {
	userID, actor := actorFromContext(ctx)
	if actor == entity.ActorUnknown {
		return nil, service.ErrUnknownActor
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrInvalidDoctorID
	}
	slotStart, err := time.Parse(time.RFC3339, req.SlotStart)
	if err != nil {
		return nil, ErrInvalidSlotStart
	}

	bookingReq := &service.BookingRequest{
		DoctorID:     doctorID,
		SlotStart:    slotStart,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		PatientEmail: req.PatientEmail,
		Age:          req.Age,
		Gender:       req.Gender,
		Reason:       req.Reason,
	}

	if actor == entity.ActorPatient {
		if err := u.fillFromPatientProfile(ctx, userID, bookingReq); err != nil {
			return nil, err
		}
	}

	appointment, err := u.bookingValidator.Validate(ctx, bookingReq)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
		if isDuplicateKeyError(err, activeSlotConstraint) {
			return nil, service.ErrSlotTaken
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, apperror.Internal("failed to create appointment", err)
	}

	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionAppointmentCreate, entity.AuditEntityAppointment, appointment.ID.String(), converter.AppointmentToResponse(appointment, u.policy.Location())); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
		// Don't fail the transaction for audit log errors
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, activeSlotConstraint) {
			return nil, service.ErrSlotTaken
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal("failed to create appointment", err)
	}

	u.log.WithFields(logrus.Fields{
		"appointment_id": appointment.ID,
		"doctor_id":      appointment.DoctorID,
		"slot":           appointment.AppointmentAt.Format(time.RFC3339),
	}).Info("Appointment booked")

	id := appointment.ID
	return &dto.AppointmentResult{Success: true, AppointmentID: &id}, nil
}

// fillFromPatientProfile attaches the patient's identity and fills blank
// contact fields from the stored profile.
func (u *appointmentUsecase) fillFromPatientProfile(ctx context.Context, userID uuid.UUID, req *service.BookingRequest) error {
	profile, err := u.patientProfileRepo.FindByUserID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return apperror.Internal("failed to load patient profile", err)
	}

	req.PatientID = &userID
	if profile == nil {
		return nil
	}

	req.HospitalID = profile.HospitalID
	if req.PatientName == "" {
		req.PatientName = profile.User.FullName
	}
	if req.PatientPhone == "" {
		req.PatientPhone = profile.PhoneNumber
	}
	if req.PatientEmail == "" {
		req.PatientEmail = profile.User.Email
	}
	if req.Gender == "" {
		req.Gender = profile.Gender
	}
	return nil
}

func (u *appointmentUsecase) UpdateStatus(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResult, error) {
	userID, actor := actorFromContext(ctx)
	if actor == entity.ActorUnknown {
		return nil, service.ErrUnknownActor
	}

	to, err := entity.ParseAppointmentStatus(req.Status)
	if err != nil {
		return nil, ErrUnknownStatus.Withf("unknown appointment status %q", req.Status)
	}
	if req.NewSlotStart != nil && to != entity.AppointmentStatusRescheduled {
		return nil, ErrUnexpectedNewSlot
	}

	var newStart *time.Time
	if req.NewSlotStart != nil {
		parsed, err := time.Parse(time.RFC3339, *req.NewSlotStart)
		if err != nil {
			return nil, ErrInvalidSlotStart
		}
		newStart = &parsed
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(ctx, tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, apperror.Internal("failed to load appointment", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if err := checkAccess(appointment, userID, actor); err != nil {
		return nil, err
	}

	from := appointment.Status
	oldStart := appointment.AppointmentAt
	now := u.now()
	if err := u.transitions.Transition(appointment, to, actor, now); err != nil {
		return nil, err
	}

	var rows int64
	if newStart != nil {
		if newStart.Equal(oldStart) {
			return nil, ErrSameSlot
		}
		if _, err := u.bookingValidator.ValidateSlot(ctx, appointment.DoctorID, *newStart); err != nil {
			return nil, err
		}
		appointment.AppointmentAt = newStart.UTC()
		rows, err = u.appointmentRepo.Reschedule(ctx, tx, appointmentID, from, appointment.AppointmentAt, now.UTC())
	} else {
		rows, err = u.appointmentRepo.UpdateStatus(ctx, tx, appointmentID, from, to, now.UTC())
	}
	if err != nil {
		if isDuplicateKeyError(err, activeSlotConstraint) {
			return nil, service.ErrSlotTaken
		}
		u.log.Warnf("Failed to update appointment status: %+v", err)
		return nil, apperror.Internal("failed to update appointment", err)
	}
	if rows == 0 {
		return nil, ErrStatusChanged
	}

	action := entity.AuditActionAppointmentStatus
	if newStart != nil {
		action = entity.AuditActionAppointmentMove
	}
	oldValue := map[string]interface{}{"status": from, "appointment_at": oldStart.UTC()}
	newValue := map[string]interface{}{"status": appointment.Status, "appointment_at": appointment.AppointmentAt, "actor": actor.String()}
	if err := u.auditService.LogUpdate(ctx, tx, &userID, action, entity.AuditEntityAppointment, appointmentID.String(), oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal("failed to update appointment", err)
	}

	u.log.WithFields(logrus.Fields{
		"appointment_id": appointmentID,
		"from":           from,
		"to":             to,
		"actor":          actor.String(),
	}).Info("Appointment status changed")

	return &dto.AppointmentResult{Success: true, AppointmentID: &appointmentID}, nil
}

// checkAccess lets admins act on any appointment, doctors on their own
// schedule and patients on their own bookings.
func checkAccess(a *entity.Appointment, userID uuid.UUID, actor entity.ActorRole) error {
	switch actor {
	case entity.ActorAdmin:
		return nil
	case entity.ActorDoctor:
		if a.DoctorID == userID {
			return nil
		}
	case entity.ActorPatient:
		if a.IsOwnedByPatient(userID) {
			return nil
		}
	}
	return ErrAppointmentForbidden
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	userID, actor := actorFromContext(ctx)

	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment: %+v", err)
		return nil, apperror.Internal("failed to load appointment", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if err := checkAccess(appointment, userID, actor); err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment, u.policy.Location()), nil
}

func (u *appointmentUsecase) ListMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	userID, _ := actorFromContext(ctx)
	return u.list(ctx, &entity.AppointmentFilter{PatientID: &userID})
}

// ListDoctorAppointments returns the calling doctor's appointments for date,
// or from today onwards when date is empty.
func (u *appointmentUsecase) ListDoctorAppointments(ctx context.Context, date string) (*dto.AppointmentListResponse, error) {
	userID, _ := actorFromContext(ctx)
	filter := &entity.AppointmentFilter{DoctorID: &userID}

	if date == "" {
		from := u.policy.StartOfDay(u.now())
		filter.From = &from
	} else {
		day, err := time.ParseInLocation("2006-01-02", date, u.policy.Location())
		if err != nil {
			return nil, ErrInvalidDate
		}
		to := u.policy.NextDay(day)
		filter.From, filter.To = &day, &to
	}

	return u.list(ctx, filter)
}

func (u *appointmentUsecase) ListAppointments(ctx context.Context, query *dto.AppointmentQuery) (*dto.AppointmentListResponse, error) {
	filter, err := u.parseQuery(query)
	if err != nil {
		return nil, err
	}
	return u.list(ctx, filter)
}

func (u *appointmentUsecase) parseQuery(q *dto.AppointmentQuery) (*entity.AppointmentFilter, error) {
	filter := &entity.AppointmentFilter{}
	if q == nil {
		return filter, nil
	}

	if q.DoctorID != "" {
		id, err := uuid.Parse(q.DoctorID)
		if err != nil {
			return nil, ErrInvalidDoctorID
		}
		filter.DoctorID = &id
	}
	if q.PatientID != "" {
		id, err := uuid.Parse(q.PatientID)
		if err != nil {
			return nil, ErrInvalidPatientID
		}
		filter.PatientID = &id
	}
	if q.Status != "" {
		status, err := entity.ParseAppointmentStatus(q.Status)
		if err != nil {
			return nil, ErrUnknownStatus.Withf("unknown appointment status %q", q.Status)
		}
		filter.Status = status
	}
	if q.From != "" {
		from, err := time.ParseInLocation("2006-01-02", q.From, u.policy.Location())
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := time.ParseInLocation("2006-01-02", q.To, u.policy.Location())
		if err != nil {
			return nil, ErrInvalidDate
		}
		end := u.policy.NextDay(to)
		filter.To = &end
	}
	return filter, nil
}

func (u *appointmentUsecase) list(ctx context.Context, filter *entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, apperror.Internal("failed to list appointments", err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments, u.policy.Location()),
		Total:        len(appointments),
	}, nil
}
