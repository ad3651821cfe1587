package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Domain failures.  Handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrUserNotFound        = errors.New("user not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrForbidden           = errors.New("forbidden")
	ErrAlreadyFavorited    = errors.New("movie already in favorites")
	ErrNotFavorited        = errors.New("movie not in favorites")
	ErrUpstreamUnavailable = errors.New("movie provider unavailable")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }

var validate = validator.New(validator.WithRequiredStructEnabled())

// check validates v against its struct tags.  Missing required fields are
// reported together ("Title, Content are required"); other violations
// report the first offending field.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		verb := "is"
		if len(missing) > 1 {
			verb = "are"
		}
		return &ValidationError{Message: strings.Join(missing, ", ") + " " + verb + " required"}
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "max":
		return &ValidationError{Message: fe.Field() + " must be at most " + fe.Param() + " characters"}
	default:
		return &ValidationError{Message: fe.Field() + " is invalid"}
	}
}
