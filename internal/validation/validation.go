// Package validation wires go-playground/validator into Echo. Request types
// declare their rules as struct tags and may provide per-field messages; a
// failed validation becomes a field-keyed 400 before the handler body runs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shakgill786/luxury-car-service/internal/apperr"
)

// Messager lets a request type supply its own per-field error messages,
// keyed by the field's JSON name.
type Messager interface {
	ValidationMessages() map[string]string
}

// Validator implements echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// New builds the request validator. Field names in errors come from JSON
// tags so responses match the wire contract.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate checks the request struct and converts rule failures into a
// field-keyed validation error.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var messages map[string]string
	if m, ok := i.(Messager); ok {
		messages = m.ValidationMessages()
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if msg, ok := messages[name]; ok {
			fields[name] = msg
		} else {
			fields[name] = defaultMessage(fe)
		}
	}
	return apperr.Validation(fields)
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
