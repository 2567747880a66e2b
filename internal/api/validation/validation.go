// Package validation checks request payloads with go-playground/validator and
// reports failures as VALIDATION_FAILED domain errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/qslabs/sms-service/internal/domain"
	apperrors "github.com/qslabs/sms-service/pkg/util/errorutil"
)

const (
	notBlankTag = "notblank"
	roleTag     = "role"
	uuidTag     = "uuid_any"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = fld.Tag.Get("query")
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRole(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation(uuidTag, func(fl validator.FieldLevel) bool {
		_, err := uuid.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// Struct validates s and converts any failure into a validation domain error.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = message(fe)
	}
	return apperrors.NewValidationError("request validation failed", details)
}

// ID rejects path identifiers that are not UUIDs before they reach storage.
func ID(name, value string) error {
	if _, err := uuid.Parse(value); err != nil {
		return apperrors.NewValidationError("invalid identifier", map[string]any{name: "must be a valid UUID"})
	}
	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", notBlankTag:
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "datetime":
		return fmt.Sprintf("must be a date formatted as %s", fe.Param())
	case roleTag:
		return "must be one of ADMIN, TEACHER, STUDENT, PARENT"
	case uuidTag:
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
