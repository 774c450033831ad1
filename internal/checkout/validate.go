package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"bakery-be/internal/utils"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a json field name to a human readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, msg := range fe {
		parts = append(parts, msg)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidShipping, strings.Join(parts, "; "))
}

func (fe FieldErrors) Unwrap() error { return ErrInvalidShipping }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("idphone", func(fl validator.FieldLevel) bool {
		phone := utils.NormalizePhoneID(fl.Field().String())
		return strings.HasPrefix(phone, "62") && len(phone) >= 10 && len(phone) <= 15
	})

	return v
}

// NormalizeShipping trims the free-text fields and rewrites the phone into
// 62... form.
func NormalizeShipping(info ShippingInfo) ShippingInfo {
	info.Name = strings.TrimSpace(info.Name)
	info.Address = strings.TrimSpace(info.Address)
	info.City = strings.TrimSpace(info.City)
	info.PostalCode = strings.TrimSpace(info.PostalCode)
	info.Note = strings.TrimSpace(info.Note)
	if phone := utils.NormalizePhoneID(info.Phone); phone != "" {
		info.Phone = phone
	}
	return info
}

// ValidateShipping returns nil when info may move to the next step.
func ValidateShipping(info ShippingInfo) FieldErrors {
	err := validate.Struct(NormalizeShipping(info))
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return FieldErrors{"_": err.Error()}
	}

	out := make(FieldErrors, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := fieldError.Field()
		switch fieldError.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "min":
			out[field] = fmt.Sprintf("%s must be at least %s characters", field, fieldError.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}
