package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"staybook/pkg/model"

	"github.com/go-playground/validator/v10"
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{2,31}$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Fields renders the errors for AppError details.
func (v ValidationErrors) Fields() map[string]any {
	fields := make(map[string]any, len(v))
	for _, err := range v {
		fields[err.Field] = err.Message
	}
	return map[string]any{"fields": fields}
}

// New returns a validator with the shared custom rules registered and
// field names reported by their json tag.
func New() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("hhmm", validateHHMM); err != nil {
		return nil, fmt.Errorf("failed to register 'hhmm' validator: %w", err)
	}
	if err := v.RegisterValidation("coupon_code", validateCouponCode); err != nil {
		return nil, fmt.Errorf("failed to register 'coupon_code' validator: %w", err)
	}
	return v, nil
}

func validateHHMM(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != len(model.TimeFormat) {
		return false
	}
	_, err := time.Parse(model.TimeFormat, value)
	return err == nil
}

func validateCouponCode(fl validator.FieldLevel) bool {
	return couponCodeRegex.MatchString(model.NormalizeCouponCode(fl.Field().String()))
}

// Struct runs tag validation and translates the result.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return Translate(validationErrs)
	}
	return err
}

func Translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		field := err.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid id", err.Field())
		case "hhmm":
			message = fmt.Sprintf("%s must be in HH:MM 24-hour format", err.Field())
		case "coupon_code":
			message = fmt.Sprintf("%s must be 3-32 letters, digits, '-' or '_'", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}
