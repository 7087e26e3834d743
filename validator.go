package leadpress

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	isoDateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	phoneCharsRe = regexp.MustCompile(`^[\d\s\-+()]+$`)
)

// requestValidator plugs go-playground/validator into Echo's c.Validate.
type requestValidator struct {
	v *validator.Validate
}

func newValidator() *requestValidator {
	v := validator.New()
	// Dates are validated here at the API boundary; the content store trusts
	// its callers and never re-checks.
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return isoDateRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phonechars", func(fl validator.FieldLevel) bool {
		return phoneCharsRe.MatchString(fl.Field().String())
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}

// validationMessage flattens a validator error into the flat string the API
// surfaces to clients.
func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Validation failed"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Missing required field: %s", fe.Field())
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "isodate":
		return "Invalid date format. Use YYYY-MM-DD"
	case "phonechars":
		return "Invalid phone number"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("Invalid value for %s", fe.Field())
	}
}
