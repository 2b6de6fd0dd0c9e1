package services

import (
	"context"
	"log"
	"time"

	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/Rakhulsr/e-agri/app/repositories"
)

const (
	DefaultLoginWindow      = 15 * time.Minute
	DefaultLoginMaxAttempts = 5

	RateLimitedMessage = "Too many failed login attempts. Please wait 15 minutes before trying again."
)

type RateLimitResult struct {
	Limited    bool
	Message    string
	RetryAfter time.Duration
}

// RateLimiter throttles logins on failed attempts per IP or per email inside a sliding window.
// Check and Record are separate statements, so concurrent attempts can overshoot the limit by
// the number of requests in flight.
type RateLimiter struct {
	attempts    repositories.LoginAttemptRepositoryImpl
	window      time.Duration
	maxAttempts int
	now         func() time.Time
}

func NewRateLimiter(attempts repositories.LoginAttemptRepositoryImpl, window time.Duration, maxAttempts int) *RateLimiter {
	if window <= 0 {
		window = DefaultLoginWindow
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultLoginMaxAttempts
	}
	return &RateLimiter{
		attempts:    attempts,
		window:      window,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

func (l *RateLimiter) Check(ctx context.Context, ip, email string) (RateLimitResult, error) {
	now := l.now()
	window, err := l.attempts.CountFailures(ctx, ip, normalizeEmail(email), now.Add(-l.window), l.maxAttempts)
	if err != nil {
		return RateLimitResult{}, err
	}

	if window.Failures < int64(l.maxAttempts) {
		return RateLimitResult{}, nil
	}

	retryAfter := l.window
	if window.ReleaseAt != nil {
		retryAfter = window.ReleaseAt.Add(l.window).Sub(now)
	}
	if retryAfter < time.Second {
		retryAfter = time.Second
	}

	return RateLimitResult{
		Limited:    true,
		Message:    RateLimitedMessage,
		RetryAfter: retryAfter,
	}, nil
}

func (l *RateLimiter) Record(ctx context.Context, ip, email string, success bool) error {
	return l.attempts.Record(ctx, &models.LoginAttempt{
		IPAddress:   ip,
		Email:       normalizeEmail(email),
		Success:     success,
		AttemptTime: l.now(),
	})
}

// Purge deletes attempts older than keep; anything past the window no longer affects decisions.
func (l *RateLimiter) Purge(ctx context.Context, keep time.Duration) (int64, error) {
	if keep < l.window {
		keep = l.window
	}
	removed, err := l.attempts.PurgeBefore(ctx, l.now().Add(-keep))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Printf("Purge: removed %d login attempts older than %v", removed, keep)
	}
	return removed, nil
}
