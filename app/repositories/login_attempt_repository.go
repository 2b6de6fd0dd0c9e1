package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Rakhulsr/e-agri/app/models"
	"gorm.io/gorm"
)

// FailureWindow summarises the failed attempts that fall inside a rate-limit window.
// ReleaseAt is the attempt time whose expiry brings Failures back under the limit;
// it is only set once the limit is reached.
type FailureWindow struct {
	Failures  int64
	ReleaseAt *time.Time
}

type LoginAttemptRepositoryImpl interface {
	CountFailures(ctx context.Context, ip, email string, since time.Time, limit int) (FailureWindow, error)
	Record(ctx context.Context, attempt *models.LoginAttempt) error
	PurgeBefore(ctx context.Context, before time.Time) (int64, error)
}

type loginAttemptRepository struct {
	db *gorm.DB
}

func NewLoginAttemptRepository(db *gorm.DB) LoginAttemptRepositoryImpl {
	return &loginAttemptRepository{db}
}

func (r *loginAttemptRepository) CountFailures(ctx context.Context, ip, email string, since time.Time, limit int) (FailureWindow, error) {
	failures := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.LoginAttempt{}).
			Where("success = ? AND (ip_address = ? OR email = ?) AND attempt_time > ?", false, ip, email, since)
	}

	var window FailureWindow
	if err := failures().Count(&window.Failures).Error; err != nil {
		return FailureWindow{}, fmt.Errorf("failed to count login failures for %s/%s: %w", ip, email, err)
	}
	if limit <= 0 || window.Failures < int64(limit) {
		return window, nil
	}

	// Once the (failures-limit+1)-th oldest attempt leaves the window, fewer than limit remain.
	var releaseAt []time.Time
	err := failures().
		Order("attempt_time ASC").
		Offset(int(window.Failures)-limit).
		Limit(1).
		Pluck("attempt_time", &releaseAt).Error
	if err != nil {
		return FailureWindow{}, fmt.Errorf("failed to find release time for %s/%s: %w", ip, email, err)
	}
	if len(releaseAt) == 1 {
		window.ReleaseAt = &releaseAt[0]
	}
	return window, nil
}

func (r *loginAttemptRepository) Record(ctx context.Context, attempt *models.LoginAttempt) error {
	if err := r.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("failed to record login attempt for %s: %w", attempt.Email, err)
	}
	return nil
}

func (r *loginAttemptRepository) PurgeBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("attempt_time < ?", before).Delete(&models.LoginAttempt{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge login attempts: %w", result.Error)
	}
	return result.RowsAffected, nil
}
