package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/infinitetutor-backend/internal/domain/learning"
	"github.com/yungbote/infinitetutor-backend/internal/platform/apierr"
)

var (
	ErrMissingIdentity = errors.New("Not authenticated")
	ErrCourseNotFound  = errors.New("Course not found")
	ErrInvalidInput    = errors.New("invalid input")
)

type inputError struct{ msg string }

func (e *inputError) Error() string        { return e.msg }
func (e *inputError) Is(target error) bool { return target == ErrInvalidInput }

func invalidInput(format string, args ...any) error {
	return apierr.BadRequest("invalid_input", &inputError{msg: fmt.Sprintf(format, args...)})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("course_level", func(fl validator.FieldLevel) bool {
		return learning.IsLevel(fl.Field().String())
	})
	return v
}

// validateInput runs struct-tag validation and reports the first failure in
// terms of the JSON field name.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalidInput("%s", err.Error())
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "required_without":
		return invalidInput("%s is required", fe.Field())
	case "oneof":
		return invalidInput("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "course_level":
		return invalidInput("%s must be one of: %s", fe.Field(), strings.Join(learning.Levels, ", "))
	case "min", "gte":
		return invalidInput("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return invalidInput("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return invalidInput("%s is invalid", fe.Field())
	}
}
