package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rakhulsr/e-agri/app/models"
	"gorm.io/gorm"
)

type ProfileRepositoryImpl interface {
	FarmerByUserID(ctx context.Context, userID string) (*models.Farmer, error)
	DealerByUserID(ctx context.Context, userID string) (*models.Dealer, error)
	SetDealerVerification(ctx context.Context, dealerID, status string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepositoryImpl {
	return &profileRepository{db}
}

func (r *profileRepository) FarmerByUserID(ctx context.Context, userID string) (*models.Farmer, error) {
	var farmer models.Farmer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&farmer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find farmer profile for user %s: %w", userID, err)
	}
	return &farmer, nil
}

func (r *profileRepository) DealerByUserID(ctx context.Context, userID string) (*models.Dealer, error) {
	var dealer models.Dealer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&dealer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find dealer profile for user %s: %w", userID, err)
	}
	return &dealer, nil
}

func (r *profileRepository) SetDealerVerification(ctx context.Context, dealerID, status string) error {
	updates := map[string]interface{}{
		"verification_status": status,
		"verified_at":         nil,
	}
	if status == models.VerificationVerified {
		updates["verified_at"] = time.Now()
	}

	result := r.db.WithContext(ctx).Model(&models.Dealer{}).Where("id = ?", dealerID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to set verification %s for dealer %s: %w", status, dealerID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
