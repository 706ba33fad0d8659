package cli

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validationMessages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"min":      "%s must be at least %s",
	"max":      "%s must be at most %s",
	"len":      "%s must be exactly %s characters",
	"numeric":  "%s must be a number",
	"oneof":    "%s must be one of: %s",
	"datetime": "%s must be a date in the format YYYY-MM-DD",
	"eqfield":  "%s must match %s",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validationError turns validator output into one readable sentence.
type validationError struct {
	problems []string
}

func (e *validationError) Error() string {
	return strings.Join(e.problems, "; ")
}

func (a *App) check(v any) error {
	err := a.validate.Struct(v)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	out := &validationError{}
	for _, fe := range ves {
		out.problems = append(out.problems, fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	msg, ok := validationMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, fe.Field(), fe.Param())
	}
	return fmt.Sprintf(msg, fe.Field())
}
