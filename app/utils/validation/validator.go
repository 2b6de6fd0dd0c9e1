package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MsgInvalidEmail = "Invalid email format"
	MsgInvalidPhone = "Invalid phone number. Must be 10 digits starting with 6-9"

	MsgPasswordLength    = "Password must be at least 8 characters"
	MsgPasswordUppercase = "Password must contain at least one uppercase letter"
	MsgPasswordLowercase = "Password must contain at least one lowercase letter"
	MsgPasswordNumber    = "Password must contain at least one number"

	minPasswordLength = 8
)

var mobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

// Engine returns the shared go-playground validator with the json tag naming and the in_mobile rule registered.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		if err := engine.RegisterValidation("in_mobile", func(fl validator.FieldLevel) bool {
			return mobilePattern.MatchString(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("validation: register in_mobile: %v", err))
		}
	})
	return engine
}

// Validator collects one message per field. The first failing check on a field wins;
// FirstError reports the earliest field that failed.
type Validator struct {
	validate *validator.Validate
	errors   map[string]string
	order    []string
}

func New() *Validator {
	return &Validator{
		validate: Engine(),
		errors:   make(map[string]string),
	}
}

func (v *Validator) fail(field, message string) bool {
	if _, exists := v.errors[field]; !exists {
		v.errors[field] = message
		v.order = append(v.order, field)
	}
	return false
}

// Check records message for field when ok is false.
func (v *Validator) Check(ok bool, field, message string) bool {
	if ok {
		return true
	}
	return v.fail(field, message)
}

func (v *Validator) Required(value, field string) bool {
	if strings.TrimSpace(value) == "" {
		return v.fail(field, Label(field)+" is required")
	}
	return true
}

func (v *Validator) Email(value, field string) bool {
	if err := v.validate.Var(value, "email"); err != nil {
		return v.fail(field, MsgInvalidEmail)
	}
	return true
}

func (v *Validator) Phone(value, field string) bool {
	if err := v.validate.Var(value, "in_mobile"); err != nil {
		return v.fail(field, MsgInvalidPhone)
	}
	return true
}

func (v *Validator) Password(value, field string) bool {
	if msg := passwordProblem(value); msg != "" {
		return v.fail(field, msg)
	}
	return true
}

func (v *Validator) OneOf(value, field string, options ...string) bool {
	for _, option := range options {
		if value == option {
			return true
		}
	}
	return v.fail(field, fmt.Sprintf("%s must be one of: %s", Label(field), strings.Join(options, ", ")))
}

// Struct runs the validate tags on s and merges the failures keyed by json field name.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		v.fail(fe.Field(), tagMessage(fe))
	}
	return nil
}

func (v *Validator) HasErrors() bool {
	return len(v.order) > 0
}

func (v *Validator) FirstError() string {
	if len(v.order) == 0 {
		return ""
	}
	return v.errors[v.order[0]]
}

func (v *Validator) Errors() map[string]string {
	out := make(map[string]string, len(v.errors))
	for k, msg := range v.errors {
		out[k] = msg
	}
	return out
}

// PasswordValid reports whether value satisfies every password rule.
func PasswordValid(value string) bool {
	return passwordProblem(value) == ""
}

func passwordProblem(value string) string {
	switch {
	case utf8.RuneCountInString(value) < minPasswordLength:
		return MsgPasswordLength
	case !strings.ContainsFunc(value, func(r rune) bool { return r >= 'A' && r <= 'Z' }):
		return MsgPasswordUppercase
	case !strings.ContainsFunc(value, func(r rune) bool { return r >= 'a' && r <= 'z' }):
		return MsgPasswordLowercase
	case !strings.ContainsFunc(value, func(r rune) bool { return r >= '0' && r <= '9' }):
		return MsgPasswordNumber
	}
	return ""
}

// Label turns a field key into its display form: "full_name" becomes "Full name".
func Label(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func tagMessage(fe validator.FieldError) string {
	label := Label(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return MsgInvalidEmail
	case "in_mobile":
		return MsgInvalidPhone
	case "numeric":
		return label + " must be a number"
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return label + " must be a valid URL"
	case "datetime":
		return fmt.Sprintf("%s must match %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
