package usecase

import (
	"context"

	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/internal/service"
	"medical-appointment-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound    = service.ErrDoctorNotFound
	ErrDoctorEmailExists = apperror.Conflict("email_exists", "email already exists")
	ErrInvalidWeekdays   = apperror.Validation("invalid_weekdays", "available_days must contain weekday names")
	ErrInvalidFee        = apperror.Validation("invalid_fee", "consultation_fee must be a non-negative decimal amount")
)

// DoctorProfileUsecase is the admin-managed doctor roster plus the public
// directory. Every write drops the doctor from the booking cache.
type DoctorProfileUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	GetActiveDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error
}

type doctorProfileUsecase struct {
	db         *gorm.DB
	log        *logrus.Logger
	userRepo   repository.UserRepository
	doctorRepo repository.DoctorProfileRepository
	doctors    *service.DoctorDirectory
	audit      service.AuditService
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorProfileRepository,
	doctors *service.DoctorDirectory,
	audit service.AuditService,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:         db,
		log:        log,
		userRepo:   userRepo,
		doctorRepo: doctorRepo,
		doctors:    doctors,
		audit:      audit,
	}
}

func parseFee(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	fee, err := decimal.NewFromString(raw)
	if err != nil || fee.IsNegative() {
		return decimal.Zero, ErrInvalidFee
	}
	return fee.Round(2), nil
}

func parseDays(names []string) (entity.Weekdays, error) {
	days := make(entity.Weekdays, 0, len(names))
	for _, name := range names {
		parsed, err := entity.ParseWeekdayNames(name)
		if err != nil || len(parsed) != 1 {
			return nil, ErrInvalidWeekdays
		}
		days = append(days, parsed[0])
	}
	return days, nil
}

// classifyDoctorWrite turns constraint violations into caller-facing errors.
func classifyDoctorWrite(err error, op string) error {
	switch {
	case isDuplicateKeyError(err, "email"):
		return ErrDoctorEmailExists
	case isForeignKeyError(err, "role"):
		return ErrRoleNotFound
	default:
		return apperror.Internal("failed to "+op+" doctor", err)
	}
}

func (u *doctorProfileUsecase) loadDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	profile, err := u.doctorRepo.FindByUserID(ctx, db, doctorID)
	if err != nil {
		u.log.WithField("doctor_id", doctorID).Warnf("Failed to find doctor profile: %+v", err)
		return nil, apperror.Internal("failed to load doctor", err)
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}
	return profile, nil
}

func (u *doctorProfileUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	fee, err := parseFee(req.ConsultationFee)
	if err != nil {
		return nil, err
	}
	days, err := parseDays(req.AvailableDays)
	if err != nil {
		return nil, err
	}
	password, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	// The user row is inserted through the profile association.
	profile := &entity.DoctorProfile{
		Specialization:    req.Specialization,
		Qualification:     req.Qualification,
		Phone:             req.Phone,
		YearsOfExperience: req.YearsOfExperience,
		AvailableDays:     days,
		ConsultationFee:   fee,
		Biography:         req.Biography,
		User: entity.User{
			Email:    entity.NormalizeEmail(req.Email),
			Password: password,
			FullName: req.FullName,
			RoleID:   entity.RoleIDDoctor,
		},
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.doctorRepo.Create(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to create doctor %s: %+v", req.Email, err)
		return nil, classifyDoctorWrite(err, "create")
	}

	created := converter.DoctorProfileToResponse(profile)
	if err := u.audit.LogCreate(ctx, tx, auditActor(ctx), entity.AuditActionDoctorCreate, entity.AuditEntityDoctor, profile.UserID.String(), created); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal("failed to create doctor", err)
	}

	u.log.WithField("doctor_id", profile.UserID).Info("Doctor created")
	return created, nil
}

func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.loadDoctor(ctx, u.db, doctorID)
	if err != nil {
		return nil, err
	}
	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorProfileUsecase) listDoctors(ctx context.Context, activeOnly bool, render func(*entity.DoctorProfile) dto.DoctorResponse) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorRepo.FindAll(ctx, u.db, activeOnly)
	if err != nil {
		u.log.Warnf("Failed to list doctors (active_only=%t): %+v", activeOnly, err)
		return nil, apperror.Internal("failed to list doctors", err)
	}

	doctors := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		doctors[i] = render(&profiles[i])
	}
	return &dto.DoctorListResponse{Doctors: doctors, Total: len(doctors)}, nil
}

func (u *doctorProfileUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	return u.listDoctors(ctx, false, func(p *entity.DoctorProfile) dto.DoctorResponse {
		return *converter.DoctorProfileToResponse(p)
	})
}

// GetActiveDoctors is the public directory: active doctors only, without
// contact details.
func (u *doctorProfileUsecase) GetActiveDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	return u.listDoctors(ctx, true, converter.DoctorProfileToPublicResponse)
}

// applyDoctorPatch copies the non-empty fields of req onto profile.
func applyDoctorPatch(profile *entity.DoctorProfile, req *dto.UpdateDoctorRequest) error {
	if req.AvailableDays != nil {
		days, err := parseDays(req.AvailableDays)
		if err != nil {
			return err
		}
		profile.AvailableDays = days
	}
	if req.ConsultationFee != "" {
		fee, err := parseFee(req.ConsultationFee)
		if err != nil {
			return err
		}
		profile.ConsultationFee = fee
	}
	if req.Password != "" {
		password, err := hashPassword(req.Password)
		if err != nil {
			return err
		}
		profile.User.Password = password
	}

	setIfPresent(&profile.User.Email, entity.NormalizeEmail(req.Email))
	setIfPresent(&profile.User.FullName, req.FullName)
	setIfPresent(&profile.Specialization, req.Specialization)
	setIfPresent(&profile.Qualification, req.Qualification)
	setIfPresent(&profile.Phone, req.Phone)
	setIfPresent(&profile.Biography, req.Biography)

	if req.IsActive != nil {
		profile.User.IsActive = req.IsActive
	}
	if req.YearsOfExperience != nil {
		profile.YearsOfExperience = *req.YearsOfExperience
	}
	return nil
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (u *doctorProfileUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.loadDoctor(ctx, tx, doctorID)
	if err != nil {
		return nil, err
	}

	before := converter.DoctorProfileToResponse(profile)
	if err := applyDoctorPatch(profile, req); err != nil {
		return nil, err
	}

	if err := u.doctorRepo.Update(ctx, tx, profile); err != nil {
		u.log.WithField("doctor_id", doctorID).Warnf("Failed to update doctor profile: %+v", err)
		return nil, classifyDoctorWrite(err, "update")
	}

	after := converter.DoctorProfileToResponse(profile)
	if err := u.audit.LogUpdate(ctx, tx, auditActor(ctx), entity.AuditActionDoctorUpdate, entity.AuditEntityDoctor, doctorID.String(), before, after); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal("failed to update doctor", err)
	}

	u.doctors.Invalidate(ctx, doctorID)
	return after, nil
}

// DeleteDoctor removes the doctor's account. Existing appointments keep the
// doctor id so their history stays readable.
func (u *doctorProfileUsecase) DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.loadDoctor(ctx, tx, doctorID)
	if err != nil {
		return err
	}

	deleted, err := u.userRepo.Delete(ctx, tx, doctorID)
	if err != nil {
		u.log.WithField("doctor_id", doctorID).Warnf("Failed to delete doctor: %+v", err)
		return apperror.Internal("failed to delete doctor", err)
	}
	if deleted == 0 {
		return ErrDoctorNotFound
	}

	if err := u.audit.LogDelete(ctx, tx, auditActor(ctx), entity.AuditActionDoctorDelete, entity.AuditEntityDoctor, doctorID.String(), converter.DoctorProfileToResponse(profile)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return apperror.Internal("failed to delete doctor", err)
	}

	u.doctors.Invalidate(ctx, doctorID)
	u.log.WithField("doctor_id", doctorID).Info("Doctor deleted")
	return nil
}
