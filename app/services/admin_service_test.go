package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/Rakhulsr/e-agri/app/repositories/repotest"
)

func TestAdminService_VerifyDealer(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		status  string
		code    int
		message string
	}{
		{name: "verifies dealer", email: "Agro@Example.com", status: models.VerificationVerified},
		{name: "rejects dealer", email: "agro@example.com", status: models.VerificationRejected},
		{name: "unknown status", email: "agro@example.com", status: "approved", code: http.StatusBadRequest},
		{name: "farmer is not a dealer", email: "ravi@example.com", status: models.VerificationVerified, code: http.StatusNotFound, message: "Dealer not found"},
		{name: "unknown email", email: "nobody@example.com", status: models.VerificationVerified, code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repotest.NewStore()
			user, _ := store.AddDealer("agro@example.com", models.VerificationPending)
			registerFarmer(t, newTestAuthService(store, nil))

			svc := NewAdminService(store.UserRepo(), store.ProfileRepo())
			dealer, err := svc.VerifyDealer(context.Background(), tt.email, tt.status)
			if tt.code != 0 {
				assertAppError(t, err, tt.code, tt.message)
				return
			}
			if err != nil {
				t.Fatalf("VerifyDealer() error = %v", err)
			}
			if dealer.VerificationStatus != tt.status || store.Dealer(user.ID).VerificationStatus != tt.status {
				t.Fatalf("status = %s, stored = %s", dealer.VerificationStatus, store.Dealer(user.ID).VerificationStatus)
			}
		})
	}
}

func TestAdminService_SetActive(t *testing.T) {
	store := repotest.NewStore()
	user, _ := store.AddDealer("agro@example.com", models.VerificationVerified)
	svc := NewAdminService(store.UserRepo(), store.ProfileRepo())

	if err := svc.SetActive(context.Background(), "agro@example.com", false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if store.User("agro@example.com").IsActive {
		t.Fatalf("user %s still active", user.ID)
	}

	err := svc.SetActive(context.Background(), "nobody@example.com", true)
	assertAppError(t, err, http.StatusNotFound, "User not found")
}

func TestAdminService_CreateAdmin(t *testing.T) {
	store := repotest.NewStore()
	svc := NewAdminService(store.UserRepo(), store.ProfileRepo())

	user, err := svc.CreateAdmin(context.Background(), " Admin@Example.com", "Password1", "Ops Admin")
	if err != nil {
		t.Fatalf("CreateAdmin() error = %v", err)
	}
	if user.Role != models.RoleAdmin || user.Email != "admin@example.com" {
		t.Fatalf("user = %+v", user)
	}

	_, err = svc.CreateAdmin(context.Background(), "admin@example.com", "Password1", "Ops Admin")
	assertAppError(t, err, http.StatusBadRequest, "Email already exists")

	_, err = svc.CreateAdmin(context.Background(), "second@example.com", "weak", "Ops Admin")
	assertAppError(t, err, http.StatusBadRequest, "Password must be at least 8 characters")
}
