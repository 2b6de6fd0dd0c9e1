package validation

import "testing"

func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{name: "too short", password: "Ab1", want: MsgPasswordLength},
		{name: "short wins over missing classes", password: "abc", want: MsgPasswordLength},
		{name: "missing uppercase", password: "password1", want: MsgPasswordUppercase},
		{name: "missing lowercase", password: "PASSWORD1", want: MsgPasswordLowercase},
		{name: "missing digit", password: "Password", want: MsgPasswordNumber},
		{name: "valid", password: "Password1", want: ""},
		{name: "length counts characters not bytes", password: "Ab1éééé", want: MsgPasswordLength},
		{name: "eight multi-byte characters", password: "Ab1ééééé", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			ok := v.Password(tt.password, "password")
			if ok != (tt.want == "") {
				t.Fatalf("Password(%q) ok = %v", tt.password, ok)
			}
			if got := v.FirstError(); got != tt.want {
				t.Fatalf("Password(%q) message = %q, want %q", tt.password, got, tt.want)
			}
			if PasswordValid(tt.password) != (tt.want == "") {
				t.Fatalf("PasswordValid(%q) disagrees with Password", tt.password)
			}
		})
	}
}

func TestValidator_Phone(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"9876543210", true},
		{"6000000000", true},
		{"5876543210", false},
		{"987654321", false},
		{"98765432101", false},
		{"98765abcde", false},
		{"+919876543210", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			v := New()
			if got := v.Phone(tt.phone, "phone"); got != tt.valid {
				t.Fatalf("Phone(%q) = %v, want %v", tt.phone, got, tt.valid)
			}
			if !tt.valid && v.Errors()["phone"] != MsgInvalidPhone {
				t.Fatalf("Phone(%q) message = %q", tt.phone, v.Errors()["phone"])
			}
		})
	}
}

func TestValidator_Email(t *testing.T) {
	v := New()
	if !v.Email("farmer@example.com", "email") {
		t.Fatal("expected valid email")
	}
	if v.Email("not-an-email", "email") {
		t.Fatal("expected invalid email")
	}
	if v.FirstError() != MsgInvalidEmail {
		t.Fatalf("message = %q", v.FirstError())
	}
}

func TestValidator_FirstErrorFollowsCheckOrder(t *testing.T) {
	v := New()
	v.Required("", "email")
	v.Password("short", "password")
	v.Required("", "full_name")

	if got := v.FirstError(); got != "Email is required" {
		t.Fatalf("FirstError() = %q", got)
	}
	if len(v.Errors()) != 3 {
		t.Fatalf("Errors() = %v, want 3 entries", v.Errors())
	}
}

func TestValidator_FirstFailureOnFieldWins(t *testing.T) {
	v := New()
	v.Check(false, "role", "first")
	v.Check(false, "role", "second")

	if got := v.Errors()["role"]; got != "first" {
		t.Fatalf("role = %q, want first", got)
	}
}

type pinInput struct {
	Pincode  string `json:"pincode" validate:"omitempty,numeric,len=6"`
	Language string `json:"preferred_language" validate:"omitempty,oneof=english hindi"`
	Skipped  string `json:"-" validate:"required"`
}

func TestValidator_StructUsesJSONNames(t *testing.T) {
	v := New()
	if err := v.Struct(pinInput{Pincode: "12ab", Language: "french", Skipped: "x"}); err != nil {
		t.Fatalf("Struct() error = %v", err)
	}

	errs := v.Errors()
	if errs["pincode"] != "Pincode must be a number" {
		t.Fatalf("pincode = %q", errs["pincode"])
	}
	if errs["preferred_language"] != "Preferred language must be one of: english, hindi" {
		t.Fatalf("preferred_language = %q", errs["preferred_language"])
	}
}

func TestValidator_StructKeepsEarlierMessages(t *testing.T) {
	v := New()
	v.Check(false, "pincode", "custom")
	if err := v.Struct(pinInput{Pincode: "1", Skipped: "x"}); err != nil {
		t.Fatalf("Struct() error = %v", err)
	}
	if got := v.Errors()["pincode"]; got != "custom" {
		t.Fatalf("pincode = %q, want custom", got)
	}
}

func TestLabel(t *testing.T) {
	if got := Label("full_name"); got != "Full name" {
		t.Fatalf("Label() = %q", got)
	}
	if got := Label(""); got != "" {
		t.Fatalf("Label(\"\") = %q", got)
	}
}
