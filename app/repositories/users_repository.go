package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rakhulsr/e-agri/app/models"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDuplicateEmail = errors.New("email already exists")

const mysqlDuplicateEntry = 1062

type UserRepositoryImpl interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	CreateFarmer(ctx context.Context, user *models.User, farmer *models.Farmer) error
	CreateDealer(ctx context.Context, user *models.User, dealer *models.Dealer) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	SetActive(ctx context.Context, userID string, active bool) error
	List(ctx context.Context, role string, limit, offset int) ([]models.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepositoryImpl {
	return &userRepository{db}
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email %s: %w", email, err)
	}
	return count > 0, nil
}

func (r *userRepository) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active user %s: %w", email, err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user %s: %w", email, err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by id %s: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	prepareUser(user)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translateCreateError(user.Email, err)
	}
	return nil
}

// CreateFarmer inserts the user and its farmer profile atomically.
func (r *userRepository) CreateFarmer(ctx context.Context, user *models.User, farmer *models.Farmer) error {
	return r.createWithProfile(ctx, user, func(tx *gorm.DB) error {
		if farmer.ID == "" {
			farmer.ID = uuid.New().String()
		}
		farmer.UserID = user.ID
		return tx.Create(farmer).Error
	})
}

// CreateDealer inserts the user and its dealer profile atomically. New dealers always start pending.
func (r *userRepository) CreateDealer(ctx context.Context, user *models.User, dealer *models.Dealer) error {
	return r.createWithProfile(ctx, user, func(tx *gorm.DB) error {
		if dealer.ID == "" {
			dealer.ID = uuid.New().String()
		}
		dealer.UserID = user.ID
		dealer.VerificationStatus = models.VerificationPending
		dealer.VerifiedAt = nil
		return tx.Create(dealer).Error
	})
}

func (r *userRepository) createWithProfile(ctx context.Context, user *models.User, createProfile func(tx *gorm.DB) error) error {
	prepareUser(user)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return createProfile(tx)
	})
	if err != nil {
		return translateCreateError(user.Email, err)
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("last_login", at)
	if result.Error != nil {
		return fmt.Errorf("failed to update last login for user %s: %w", userID, result.Error)
	}
	return nil
}

func (r *userRepository) SetActive(ctx context.Context, userID string, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to set active=%t for user %s: %w", active, userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, role string, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.db.WithContext(ctx).Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func prepareUser(user *models.User) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.PreferredLanguage == "" {
		user.PreferredLanguage = models.DefaultLanguage
	}
}

func translateCreateError(email string, err error) error {
	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return ErrDuplicateEmail
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return fmt.Errorf("failed to create user %s: %w", email, err)
}
