package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eagri_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eagri_registrations_total",
		Help: "Successful registrations by role.",
	}, []string{"role"})

	notificationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eagri_notifications_total",
		Help: "Welcome e-mail jobs by outcome.",
	}, []string{"outcome"})

	stockDecrements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eagri_stock_decrements_total",
		Help: "Stock decrement requests by outcome.",
	}, []string{"outcome"})
)

const (
	outcomeSuccess      = "success"
	outcomeInvalid      = "invalid_credential"
	outcomeRateLimited  = "rate_limited"
	outcomeError        = "error"
	outcomeSent         = "sent"
	outcomeFailed       = "failed"
	outcomeDropped      = "dropped"
	outcomeSkipped      = "skipped"
	outcomeInsufficient = "insufficient"
)
