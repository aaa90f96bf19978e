// Package forms validates records typed in by hand, one at a time.
package forms

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tgienger/firmdesk/internal/csvimport"
	"github.com/tgienger/firmdesk/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("label"); name != "" {
			return name
		}
		return f.Name
	})
	must(v.RegisterValidation("caldate", func(fl validator.FieldLevel) bool {
		_, err := csvimport.ParseDate(fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("flag", func(fl validator.FieldLevel) bool {
		_, ok := csvimport.ParseFlag(fl.Field().String())
		return ok
	}))
	must(v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		return models.TaskStatus(fl.Field().String()).Valid()
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// check runs the validator over form and turns failures into
// field label -> message.
func check(form any) (map[string]string, bool) {
	errorMessages := map[string]string{}
	errs := validate.Struct(form)
	if errs == nil {
		return errorMessages, true
	}
	for _, err := range errs.(validator.ValidationErrors) {
		errorMessages[err.Field()] = message(err)
	}
	return errorMessages, len(errorMessages) == 0
}

func message(err validator.FieldError) string {
	field := err.Field()
	switch err.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "caldate":
		return field + " must be a valid date (YYYY-MM-DD)"
	case "numeric":
		return field + " must be a number"
	case "number":
		return field + " must be a non-negative integer"
	case "flag":
		return field + " must be true or false"
	case "taskstatus":
		statuses := make([]string, len(models.TaskStatuses))
		for i, s := range models.TaskStatuses {
			statuses[i] = string(s)
		}
		return field + " must be one of: " + strings.Join(statuses, ", ")
	}
	return fmt.Sprintf("%s failed %s", field, err.Tag())
}

// optional returns nil for an empty value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
