package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Rakhulsr/e-agri/app/helpers"
	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/Rakhulsr/e-agri/app/repositories"
	"github.com/Rakhulsr/e-agri/app/utils/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// WelcomeNotifier queues the post-registration e-mail. Implementations must not block.
type WelcomeNotifier interface {
	WelcomeEmail(email, name, role string)
}

type RegisterInput struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	FullName          string `json:"full_name" validate:"max=100"`
	Phone             string `json:"phone"`
	Role              string `json:"role"`
	PreferredLanguage string `json:"preferred_language" validate:"omitempty,oneof=english hindi kannada tamil telugu marathi"`

	FarmLocation  string `json:"farm_location" validate:"max=255"`
	District      string `json:"district" validate:"max=100"`
	State         string `json:"state" validate:"max=100"`
	Pincode       string `json:"pincode" validate:"omitempty,numeric,len=6"`
	FarmSizeAcres string `json:"farm_size_acres" validate:"omitempty,numeric"`
	SoilType      string `json:"soil_type" validate:"max=50"`
	PrimaryCrop   string `json:"primary_crop" validate:"max=100"`

	BusinessName    string `json:"business_name" validate:"max=200"`
	BusinessLicense string `json:"business_license" validate:"max=100"`
	GSTNumber       string `json:"gst_number" validate:"omitempty,alphanum,len=15"`
	BusinessAddress string `json:"business_address" validate:"max=1000"`
}

type RegisterResult struct {
	UserID             string `json:"user_id"`
	Email              string `json:"email"`
	FullName           string `json:"full_name"`
	Role               string `json:"role"`
	FarmerID           string `json:"farmer_id,omitempty"`
	DealerID           string `json:"dealer_id,omitempty"`
	VerificationStatus string `json:"verification_status,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IP       string `json:"-"`
}

type LoginResult struct {
	UserID            string      `json:"user_id"`
	Email             string      `json:"email"`
	FullName          string      `json:"full_name"`
	Role              string      `json:"role"`
	PreferredLanguage string      `json:"preferred_language"`
	RoleData          interface{} `json:"role_data"`
	SessionID         string      `json:"session_id,omitempty"`
}

type AuthService struct {
	users    repositories.UserRepositoryImpl
	profiles repositories.ProfileRepositoryImpl
	limiter  *RateLimiter
	notifier WelcomeNotifier
	hashCost int
	now      func() time.Time
}

func NewAuthService(users repositories.UserRepositoryImpl, profiles repositories.ProfileRepositoryImpl, limiter *RateLimiter, notifier WelcomeNotifier) *AuthService {
	return &AuthService{
		users:    users,
		profiles: profiles,
		limiter:  limiter,
		notifier: notifier,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	input.Email = normalizeEmail(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Role = strings.TrimSpace(input.Role)

	v := validation.New()
	if v.Required(input.Email, "email") {
		v.Email(input.Email, "email")
	}
	if v.Required(input.Password, "password") {
		v.Password(input.Password, "password")
	}
	v.Required(input.FullName, "full_name")
	if input.Phone != "" {
		v.Phone(input.Phone, "phone")
	}
	if v.Required(input.Role, "role") {
		v.Check(input.Role == models.RoleFarmer || input.Role == models.RoleDealer, "role", "Invalid role. Must be 'farmer' or 'dealer'")
	}
	if err := v.Struct(input); err != nil {
		return nil, helpers.NewStorageUnavailable(err)
	}
	if v.HasErrors() {
		return nil, helpers.NewValidationFailed(v.FirstError(), v.Errors())
	}

	var farmSize decimal.NullDecimal
	if input.FarmSizeAcres != "" {
		size, err := decimal.NewFromString(input.FarmSizeAcres)
		if err != nil || size.IsNegative() {
			return nil, helpers.NewValidationFailed("Farm size acres must be a positive number", map[string]string{
				"farm_size_acres": "Farm size acres must be a positive number",
			})
		}
		farmSize = decimal.NewNullDecimal(size)
	}

	exists, err := s.users.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, helpers.NewStorageUnavailable(err)
	}
	if exists {
		return nil, helpers.NewDuplicateEmail()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, helpers.NewValidationFailed("Password must be at most 72 bytes", map[string]string{
			"password": "Password must be at most 72 bytes",
		})
	}
	if err != nil {
		return nil, helpers.NewStorageUnavailable(err)
	}

	language := input.PreferredLanguage
	if language == "" {
		language = models.DefaultLanguage
	}

	user := &models.User{
		ID:                uuid.New().String(),
		Email:             input.Email,
		PasswordHash:      string(hash),
		FullName:          input.FullName,
		Phone:             input.Phone,
		Role:              input.Role,
		PreferredLanguage: language,
		IsActive:          true,
	}

	result := &RegisterResult{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}

	switch input.Role {
	case models.RoleFarmer:
		farmer := &models.Farmer{
			FarmLocation:  strings.TrimSpace(input.FarmLocation),
			District:      strings.TrimSpace(input.District),
			State:         strings.TrimSpace(input.State),
			Pincode:       strings.TrimSpace(input.Pincode),
			FarmSizeAcres: farmSize,
			SoilType:      strings.TrimSpace(input.SoilType),
			PrimaryCrop:   strings.TrimSpace(input.PrimaryCrop),
		}
		err = s.users.CreateFarmer(ctx, user, farmer)
		result.FarmerID = farmer.ID
	case models.RoleDealer:
		dealer := &models.Dealer{
			BusinessName:    strings.TrimSpace(input.BusinessName),
			BusinessLicense: strings.TrimSpace(input.BusinessLicense),
			GSTNumber:       strings.ToUpper(strings.TrimSpace(input.GSTNumber)),
			BusinessAddress: strings.TrimSpace(input.BusinessAddress),
			District:        strings.TrimSpace(input.District),
			State:           strings.TrimSpace(input.State),
		}
		err = s.users.CreateDealer(ctx, user, dealer)
		result.DealerID = dealer.ID
		result.VerificationStatus = dealer.VerificationStatus
	}
	if errors.Is(err, repositories.ErrDuplicateEmail) {
		return nil, helpers.NewDuplicateEmail()
	}
	if err != nil {
		return nil, helpers.NewStorageUnavailable(err)
	}

	registrations.WithLabelValues(user.Role).Inc()
	log.Printf("Register: user %s registered as %s", user.ID, user.Role)

	if s.notifier != nil {
		s.notifier.WelcomeEmail(user.Email, user.FullName, user.Role)
	}

	return result, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		fields := map[string]string{}
		if email == "" {
			fields["email"] = "Email is required"
		}
		if input.Password == "" {
			fields["password"] = "Password is required"
		}
		return nil, helpers.NewValidationFailed("Email and password required", fields)
	}

	limit, err := s.limiter.Check(ctx, input.IP, email)
	if err != nil {
		loginOutcomes.WithLabelValues(outcomeError).Inc()
		return nil, helpers.NewStorageUnavailable(err)
	}
	if limit.Limited {
		loginOutcomes.WithLabelValues(outcomeRateLimited).Inc()
		log.Printf("Login: rate limited ip=%s email=%s", input.IP, email)
		return nil, helpers.NewRateLimited(limit.Message, limit.RetryAfter)
	}

	user, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		loginOutcomes.WithLabelValues(outcomeError).Inc()
		return nil, helpers.NewStorageUnavailable(err)
	}

	if !passwordMatches(user, input.Password) {
		if err := s.limiter.Record(ctx, input.IP, email, false); err != nil {
			loginOutcomes.WithLabelValues(outcomeError).Inc()
			return nil, helpers.NewStorageUnavailable(err)
		}
		loginOutcomes.WithLabelValues(outcomeInvalid).Inc()
		return nil, helpers.NewInvalidCredential()
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		loginOutcomes.WithLabelValues(outcomeError).Inc()
		return nil, helpers.NewStorageUnavailable(err)
	}

	roleData, err := s.roleData(ctx, user)
	if err != nil {
		loginOutcomes.WithLabelValues(outcomeError).Inc()
		return nil, helpers.NewStorageUnavailable(err)
	}

	if err := s.limiter.Record(ctx, input.IP, email, true); err != nil {
		log.Printf("Login: failed to record successful attempt for %s: %v", user.ID, err)
	}

	loginOutcomes.WithLabelValues(outcomeSuccess).Inc()

	return &LoginResult{
		UserID:            user.ID,
		Email:             user.Email,
		FullName:          user.FullName,
		Role:              user.Role,
		PreferredLanguage: user.PreferredLanguage,
		RoleData:          roleData,
	}, nil
}

func (s *AuthService) roleData(ctx context.Context, user *models.User) (interface{}, error) {
	switch user.Role {
	case models.RoleFarmer:
		farmer, err := s.profiles.FarmerByUserID(ctx, user.ID)
		if err != nil || farmer == nil {
			return nil, err
		}
		return farmer, nil
	case models.RoleDealer:
		dealer, err := s.profiles.DealerByUserID(ctx, user.ID)
		if err != nil || dealer == nil {
			return nil, err
		}
		return dealer, nil
	}
	return nil, nil
}

var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

// passwordMatches runs bcrypt even for unknown users so both failure paths take similar time.
func passwordMatches(user *models.User, password string) bool {
	if user == nil {
		dummyHashOnce.Do(func() {
			dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unknown-user-password"), bcrypt.DefaultCost)
		})
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
