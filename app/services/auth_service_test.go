package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Rakhulsr/e-agri/app/helpers"
	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/Rakhulsr/e-agri/app/repositories/repotest"
	"golang.org/x/crypto/bcrypt"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *recordingNotifier) WelcomeEmail(email, _, role string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, email+":"+role)
}

func newTestAuthService(store *repotest.Store, notifier WelcomeNotifier) *AuthService {
	limiter := NewRateLimiter(store.AttemptRepo(), 15*time.Minute, 5)
	svc := NewAuthService(store.UserRepo(), store.ProfileRepo(), limiter, notifier)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func farmerInput() RegisterInput {
	return RegisterInput{
		Email:         "Ravi@Example.com ",
		Password:      "Password1",
		FullName:      "Ravi Kumar",
		Phone:         "9876543210",
		Role:          models.RoleFarmer,
		District:      "Mandya",
		State:         "Karnataka",
		Pincode:       "571401",
		FarmSizeAcres: "4.5",
		PrimaryCrop:   "Sugarcane",
	}
}

func assertAppError(t *testing.T, err error, status int, message string) *helpers.AppError {
	t.Helper()
	var appErr *helpers.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want *helpers.AppError", err)
	}
	if appErr.Code != status {
		t.Fatalf("status = %d, want %d (%s)", appErr.Code, status, appErr.Message)
	}
	if message != "" && appErr.Message != message {
		t.Fatalf("message = %q, want %q", appErr.Message, message)
	}
	return appErr
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name    string
		input   func() RegisterInput
		setup   func(*repotest.Store)
		status  int
		message string
	}{
		{
			name:  "registers farmer",
			input: farmerInput,
		},
		{
			name: "registers dealer as pending",
			input: func() RegisterInput {
				in := farmerInput()
				in.Role = models.RoleDealer
				in.BusinessName = "Green Agro"
				in.GSTNumber = "29abcde1234f1z5"
				return in
			},
		},
		{
			name: "phone is optional",
			input: func() RegisterInput {
				in := farmerInput()
				in.Phone = ""
				return in
			},
		},
		{
			name: "rejects admin role",
			input: func() RegisterInput {
				in := farmerInput()
				in.Role = models.RoleAdmin
				return in
			},
			status:  http.StatusBadRequest,
			message: "Invalid role. Must be 'farmer' or 'dealer'",
		},
		{
			name: "reports the first failing field",
			input: func() RegisterInput {
				in := farmerInput()
				in.Email = "bad"
				in.Password = "weak"
				return in
			},
			status:  http.StatusBadRequest,
			message: "Invalid email format",
		},
		{
			name: "password without uppercase",
			input: func() RegisterInput {
				in := farmerInput()
				in.Password = "password1"
				return in
			},
			status:  http.StatusBadRequest,
			message: "Password must contain at least one uppercase letter",
		},
		{
			name: "invalid phone",
			input: func() RegisterInput {
				in := farmerInput()
				in.Phone = "1234567890"
				return in
			},
			status:  http.StatusBadRequest,
			message: "Invalid phone number. Must be 10 digits starting with 6-9",
		},
		{
			name: "invalid pincode",
			input: func() RegisterInput {
				in := farmerInput()
				in.Pincode = "12"
				return in
			},
			status:  http.StatusBadRequest,
			message: "Pincode must be exactly 6 characters",
		},
		{
			name:  "duplicate email",
			input: farmerInput,
			setup: func(s *repotest.Store) {
				s.AddDealer("ravi@example.com", models.VerificationPending)
			},
			status:  http.StatusBadRequest,
			message: "Email already exists",
		},
		{
			name:  "storage failure",
			input: farmerInput,
			setup: func(s *repotest.Store) {
				s.Err = errors.New("connection refused")
			},
			status:  http.StatusInternalServerError,
			message: "Service temporarily unavailable. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repotest.NewStore()
			if tt.setup != nil {
				tt.setup(store)
			}
			notifier := &recordingNotifier{}
			svc := newTestAuthService(store, notifier)

			input := tt.input()
			result, err := svc.Register(context.Background(), input)
			if tt.status != 0 {
				assertAppError(t, err, tt.status, tt.message)
				if len(notifier.calls) != 0 {
					t.Fatal("no welcome email expected on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if result.Email != "ravi@example.com" {
				t.Fatalf("email = %q, want normalised", result.Email)
			}

			user := store.User("ravi@example.com")
			if user == nil {
				t.Fatal("user not stored")
			}
			if user.PasswordHash == input.Password {
				t.Fatal("password stored in plain text")
			}
			if user.PreferredLanguage != models.DefaultLanguage {
				t.Fatalf("language = %q", user.PreferredLanguage)
			}

			switch input.Role {
			case models.RoleFarmer:
				farmer := store.Farmer(user.ID)
				if farmer == nil || result.FarmerID != farmer.ID {
					t.Fatalf("farmer profile = %+v, result = %+v", farmer, result)
				}
				if !farmer.FarmSizeAcres.Valid || farmer.FarmSizeAcres.Decimal.String() != "4.5" {
					t.Fatalf("farm size = %+v", farmer.FarmSizeAcres)
				}
			case models.RoleDealer:
				dealer := store.Dealer(user.ID)
				if dealer == nil || dealer.VerificationStatus != models.VerificationPending {
					t.Fatalf("dealer profile = %+v", dealer)
				}
				if result.VerificationStatus != models.VerificationPending {
					t.Fatalf("result status = %q", result.VerificationStatus)
				}
				if dealer.GSTNumber != "29ABCDE1234F1Z5" {
					t.Fatalf("gst = %q", dealer.GSTNumber)
				}
			}

			if len(notifier.calls) != 1 || notifier.calls[0] != "ravi@example.com:"+input.Role {
				t.Fatalf("notifier calls = %v", notifier.calls)
			}
		})
	}
}

func TestAuthService_RegisterWithoutNotifier(t *testing.T) {
	store := repotest.NewStore()
	svc := newTestAuthService(store, nil)

	if _, err := svc.Register(context.Background(), farmerInput()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if store.UserCount() != 1 {
		t.Fatalf("users = %d, want 1", store.UserCount())
	}
}

func registerFarmer(t *testing.T, svc *AuthService) {
	t.Helper()
	if _, err := svc.Register(context.Background(), farmerInput()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	store := repotest.NewStore()
	svc := newTestAuthService(store, nil)
	registerFarmer(t, svc)

	result, err := svc.Login(context.Background(), LoginInput{Email: " RAVI@example.com", Password: "Password1", IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Role != models.RoleFarmer || result.FullName != "Ravi Kumar" {
		t.Fatalf("result = %+v", result)
	}
	farmer, ok := result.RoleData.(*models.Farmer)
	if !ok || farmer.District != "Mandya" {
		t.Fatalf("role data = %#v", result.RoleData)
	}

	user := store.User("ravi@example.com")
	if user.LastLogin == nil {
		t.Fatal("last login not updated")
	}

	attempts := store.Attempts()
	if len(attempts) != 1 || !attempts[0].Success || attempts[0].IPAddress != "10.0.0.1" {
		t.Fatalf("attempts = %+v", attempts)
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	tests := []struct {
		name    string
		input   LoginInput
		setup   func(*repotest.Store)
		status  int
		message string
	}{
		{
			name:    "missing password",
			input:   LoginInput{Email: "ravi@example.com", IP: "10.0.0.1"},
			status:  http.StatusBadRequest,
			message: "Email and password required",
		},
		{
			name:    "wrong password",
			input:   LoginInput{Email: "ravi@example.com", Password: "Wrong1234", IP: "10.0.0.1"},
			status:  http.StatusUnauthorized,
			message: "Invalid email or password",
		},
		{
			name:    "unknown email",
			input:   LoginInput{Email: "nobody@example.com", Password: "Password1", IP: "10.0.0.1"},
			status:  http.StatusUnauthorized,
			message: "Invalid email or password",
		},
		{
			name:  "deactivated account",
			input: LoginInput{Email: "ravi@example.com", Password: "Password1", IP: "10.0.0.1"},
			setup: func(s *repotest.Store) {
				user := s.User("ravi@example.com")
				if err := s.UserRepo().SetActive(context.Background(), user.ID, false); err != nil {
					panic(err)
				}
			},
			status:  http.StatusUnauthorized,
			message: "Invalid email or password",
		},
		{
			name:  "storage failure",
			input: LoginInput{Email: "ravi@example.com", Password: "Password1", IP: "10.0.0.1"},
			setup: func(s *repotest.Store) {
				s.Err = errors.New("connection refused")
			},
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repotest.NewStore()
			svc := newTestAuthService(store, nil)
			registerFarmer(t, svc)
			if tt.setup != nil {
				tt.setup(store)
			}

			_, err := svc.Login(context.Background(), tt.input)
			assertAppError(t, err, tt.status, tt.message)
		})
	}
}

func TestAuthService_LoginRecordsFailure(t *testing.T) {
	store := repotest.NewStore()
	svc := newTestAuthService(store, nil)
	registerFarmer(t, svc)

	_, _ = svc.Login(context.Background(), LoginInput{Email: "ravi@example.com", Password: "Wrong1234", IP: "10.0.0.9"})

	attempts := store.Attempts()
	if len(attempts) != 1 || attempts[0].Success || attempts[0].Email != "ravi@example.com" {
		t.Fatalf("attempts = %+v", attempts)
	}
}

func TestAuthService_LoginRateLimited(t *testing.T) {
	store := repotest.NewStore()
	svc := newTestAuthService(store, nil)
	registerFarmer(t, svc)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := svc.Login(ctx, LoginInput{Email: "ravi@example.com", Password: "Wrong1234", IP: "10.0.0.1"})
		assertAppError(t, err, http.StatusUnauthorized, "")
	}

	// The correct password is refused while the window is full.
	_, err := svc.Login(ctx, LoginInput{Email: "ravi@example.com", Password: "Password1", IP: "10.0.0.1"})
	appErr := assertAppError(t, err, http.StatusTooManyRequests, RateLimitedMessage)
	if appErr.RetryAfter <= 0 || appErr.RetryAfter > 15*time.Minute {
		t.Fatalf("retry after = %v", appErr.RetryAfter)
	}
	if !errors.Is(err, helpers.ErrRateLimited) {
		t.Fatal("expected errors.Is(err, ErrRateLimited)")
	}

	// Another address is limited too because the email matches.
	_, err = svc.Login(ctx, LoginInput{Email: "ravi@example.com", Password: "Password1", IP: "10.0.0.2"})
	assertAppError(t, err, http.StatusTooManyRequests, "")

	// Once the window has passed the account opens again.
	later := time.Now().Add(16 * time.Minute)
	svc.limiter.now = func() time.Time { return later }
	svc.now = func() time.Time { return later }
	if _, err := svc.Login(ctx, LoginInput{Email: "ravi@example.com", Password: "Password1", IP: "10.0.0.1"}); err != nil {
		t.Fatalf("Login() after window error = %v", err)
	}
}

func TestAuthService_LoginFailsClosedWhenAttemptCannotBeRecorded(t *testing.T) {
	store := repotest.NewStore()
	svc := newTestAuthService(store, nil)
	registerFarmer(t, svc)

	svc.limiter = NewRateLimiter(failingRecorder{store.AttemptRepo()}, 15*time.Minute, 5)

	_, err := svc.Login(context.Background(), LoginInput{Email: "ravi@example.com", Password: "Wrong1234", IP: "10.0.0.1"})
	assertAppError(t, err, http.StatusInternalServerError, "")
}
