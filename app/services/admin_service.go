package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Rakhulsr/e-agri/app/helpers"
	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/Rakhulsr/e-agri/app/repositories"
	"github.com/Rakhulsr/e-agri/app/utils/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminService backs the operator commands: dealer verification, account activation and admin creation.
type AdminService struct {
	users    repositories.UserRepositoryImpl
	profiles repositories.ProfileRepositoryImpl
}

func NewAdminService(users repositories.UserRepositoryImpl, profiles repositories.ProfileRepositoryImpl) *AdminService {
	return &AdminService{users: users, profiles: profiles}
}

func (s *AdminService) VerifyDealer(ctx context.Context, email, status string) (*models.Dealer, error) {
	switch status {
	case models.VerificationPending, models.VerificationVerified, models.VerificationRejected:
	default:
		return nil, helpers.NewValidationFailed(fmt.Sprintf("Unknown verification status %q", status), nil)
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, helpers.NewStorageUnavailable(err)
	}
	if user == nil || user.Role != models.RoleDealer {
		return nil, helpers.NewNotFound("Dealer not found")
	}

	dealer, err := s.profiles.DealerByUserID(ctx, user.ID)
	if err != nil {
		return nil, helpers.NewStorageUnavailable(err)
	}
	if dealer == nil {
		return nil, helpers.NewNotFound("Dealer profile not found")
	}

	if err := s.profiles.SetDealerVerification(ctx, dealer.ID, status); err != nil {
		return nil, helpers.NewStorageUnavailable(err)
	}
	dealer.VerificationStatus = status

	log.Printf("VerifyDealer: dealer %s (%s) is now %s", dealer.ID, user.Email, status)
	return dealer, nil
}

func (s *AdminService) SetActive(ctx context.Context, email string, active bool) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return helpers.NewStorageUnavailable(err)
	}
	if user == nil {
		return helpers.NewNotFound("User not found")
	}

	if err := s.users.SetActive(ctx, user.ID, active); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.NewNotFound("User not found")
		}
		return helpers.NewStorageUnavailable(err)
	}

	log.Printf("SetActive: user %s active=%t", user.Email, active)
	return nil
}

func (s *AdminService) CreateAdmin(ctx context.Context, email, password, fullName string) (*models.User, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	v := validation.New()
	if v.Required(email, "email") {
		v.Email(email, "email")
	}
	if v.Required(password, "password") {
		v.Password(password, "password")
	}
	v.Required(fullName, "full_name")
	if v.HasErrors() {
		return nil, helpers.NewValidationFailed(v.FirstError(), v.Errors())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, helpers.NewValidationFailed(err.Error(), nil)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, helpers.NewDuplicateEmail()
		}
		return nil, helpers.NewStorageUnavailable(err)
	}

	log.Printf("CreateAdmin: admin %s created", user.Email)
	return user, nil
}
