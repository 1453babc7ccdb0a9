package usecase

import (
	"context"
	"time"

	"medical-appointment-booking/config"
	"medical-appointment-booking/internal/converter"
	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
	"medical-appointment-booking/internal/domain/repository"
	"medical-appointment-booking/internal/service"
	"medical-appointment-booking/pkg/apperror"
	"medical-appointment-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = apperror.Conflict("email_exists", "email already exists")
	ErrHospitalIDExists   = apperror.Conflict("hospital_id_exists", "hospital id already registered")
	ErrInvalidCredentials = apperror.Unauthenticated("invalid_credentials", "invalid email or password")
	ErrUserInactive       = apperror.Forbidden("account_inactive", "account is deactivated")
	ErrInvalidToken       = apperror.Unauthenticated("invalid_token", "invalid or expired token")
	ErrTokenRevoked       = apperror.Unauthenticated("token_revoked", "token has been revoked")
	ErrUnauthenticated    = apperror.Unauthenticated("unauthenticated", "authentication required")
	ErrUserNotFound       = apperror.NotFound("user_not_found", "user not found")
	ErrRoleNotFound       = apperror.New(apperror.KindInternal, "role_not_seeded", "role is not seeded")
	ErrInvalidDateFormat  = apperror.Validation("invalid_date_format", "invalid date format, use YYYY-MM-DD")
)

// AuthUsecase owns accounts and sessions. Tokens are JWTs whose ids are
// tracked in Redis so logout and refresh rotation take effect immediately.
type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	EnsureAdmin(ctx context.Context, admin config.AdminConfig) error
}

type authUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
	jwtService         *jwt.JWTService
	sessions           *jwt.SessionStore
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	sessions *jwt.SessionStore,
) AuthUsecase {
	return &authUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
		jwtService:         jwtService,
		sessions:           sessions,
	}
}

// dateOfBirth parses an optional YYYY-MM-DD value.
func dateOfBirth(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	return &parsed, nil
}

// classifyAccountWrite turns constraint violations on users and patient
// profiles into caller-facing errors.
func classifyAccountWrite(err error) error {
	switch {
	case isDuplicateKeyError(err, "email"):
		return ErrEmailAlreadyExists
	case isDuplicateKeyError(err, "hospital_id"):
		return ErrHospitalIDExists
	case isForeignKeyError(err, "role"):
		return ErrRoleNotFound
	default:
		return apperror.Internal("failed to create account", err)
	}
}

func (u *authUsecase) recordAccountEvent(ctx context.Context, db *gorm.DB, actor *uuid.UUID, action string, userID uuid.UUID, details interface{}) {
	err := u.auditService.Record(ctx, db, service.AuditEntry{
		UserID:   actor,
		Action:   action,
		Entity:   entity.AuditEntityUser,
		EntityID: userID.String(),
		NewValue: details,
	})
	if err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	dob, err := dateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	password, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:    entity.NormalizeEmail(req.Email),
		Password: password,
		FullName: req.FullName,
		RoleID:   entity.RoleIDPatient,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		u.log.Warnf("Failed to create user %s: %+v", req.Email, err)
		return nil, classifyAccountWrite(err)
	}

	profile := &entity.PatientProfile{
		UserID:      user.ID,
		HospitalID:  req.HospitalID,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: dob,
		Gender:      req.Gender,
	}
	if err := u.patientProfileRepo.Create(ctx, tx, profile); err != nil {
		u.log.Warnf("Failed to create patient profile %s: %+v", req.HospitalID, err)
		return nil, classifyAccountWrite(err)
	}

	u.recordAccountEvent(ctx, tx, &user.ID, entity.AuditActionUserRegister, user.ID, map[string]interface{}{
		"email": user.Email,
		"role":  entity.RolePatient,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, apperror.Internal("failed to create account", err)
	}

	user.PatientProfile = profile
	registered := converter.UserToResponse(user)
	registered.Role = entity.RolePatient
	return registered, nil
}

// Login reports an inactive account only after a correct password.
func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, u.db, entity.NormalizeEmail(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, apperror.Internal("failed to load account", err)
	}
	if user == nil || !passwordMatches(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	tokens, err := u.issueTokens(ctx, user.ID, user.Email, user.RoleID)
	if err != nil {
		return nil, err
	}

	u.recordAccountEvent(ctx, u.db, &user.ID, entity.AuditActionUserLogin, user.ID, nil)
	return tokens, nil
}

// issueTokens signs an access/refresh pair and records both in Redis.
func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string, roleID int) (*dto.TokenResponse, error) {
	accessToken, accessID, err := u.jwtService.GenerateAccessToken(userID, email, roleID)
	if err != nil {
		return nil, apperror.Internal("failed to sign access token", err)
	}
	refreshToken, refreshID, err := u.jwtService.GenerateRefreshToken(userID, email, roleID)
	if err != nil {
		return nil, apperror.Internal("failed to sign refresh token", err)
	}

	accessTTL := u.jwtService.GetAccessExpiry()
	if err := u.sessions.Save(ctx, userID, accessID, accessTTL, refreshID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.WithField("user_id", userID).Warnf("Failed to store session: %+v", err)
		return nil, apperror.Internal("failed to store session", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(accessTTL.Seconds()),
	}, nil
}

// Logout revokes the presented access token. Refresh tokens expire on their own
// or are rotated away by RefreshToken.
func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string) error {
	if err := u.sessions.RevokeAccess(ctx, userID, accessTokenID); err != nil {
		u.log.WithField("user_id", userID).Warnf("Failed to revoke access token: %+v", err)
		return apperror.Internal("failed to revoke session", err)
	}

	u.recordAccountEvent(ctx, u.db, &userID, entity.AuditActionUserLogout, userID, nil)
	return nil
}

// RefreshToken trades a live refresh token for a new pair. Each refresh
// token works once.
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	live, err := u.sessions.ConsumeRefresh(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.WithField("user_id", claims.UserID).Warnf("Failed to consume refresh token: %+v", err)
		return nil, apperror.Internal("failed to rotate session", err)
	}
	if !live {
		return nil, ErrTokenRevoked
	}

	return u.issueTokens(ctx, claims.UserID, claims.Email, claims.RoleID)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, apperror.Internal("failed to load account", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := u.attachProfile(ctx, u.db, user); err != nil {
		u.log.WithField("user_id", userID).Warnf("Failed to load profile: %+v", err)
		return nil, apperror.Internal("failed to load profile", err)
	}
	return converter.UserToResponse(user), nil
}

// attachProfile loads the role-specific profile. Admins have none.
func (u *authUsecase) attachProfile(ctx context.Context, db *gorm.DB, user *entity.User) error {
	var err error
	switch user.Actor() {
	case entity.ActorDoctor:
		user.DoctorProfile, err = u.doctorProfileRepo.FindByUserID(ctx, db, user.ID)
	case entity.ActorPatient:
		user.PatientProfile, err = u.patientProfileRepo.FindByUserID(ctx, db, user.ID)
	}
	return err
}

// EnsureAdmin creates the configured administrator when no admin exists yet.
func (u *authUsecase) EnsureAdmin(ctx context.Context, admin config.AdminConfig) error {
	if !admin.Enabled() {
		u.log.Info("Admin bootstrap skipped: ADMIN_EMAIL or ADMIN_PASSWORD not set")
		return nil
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	exists, err := u.userRepo.ExistsByRole(ctx, tx, entity.RoleIDAdmin)
	if err != nil {
		return apperror.Internal("failed to look up admin", err)
	}
	if exists {
		return nil
	}

	password, err := hashPassword(admin.Password)
	if err != nil {
		return err
	}
	user := &entity.User{
		Email:    entity.NormalizeEmail(admin.Email),
		Password: password,
		FullName: admin.FullName,
		RoleID:   entity.RoleIDAdmin,
	}
	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		return classifyAccountWrite(err)
	}

	u.recordAccountEvent(ctx, tx, nil, entity.AuditActionAdminBootstrap, user.ID, map[string]interface{}{
		"email": user.Email,
	})

	if err := tx.Commit().Error; err != nil {
		return apperror.Internal("failed to create admin", err)
	}

	u.log.WithField("email", admin.Email).Info("Bootstrap admin created")
	return nil
}
