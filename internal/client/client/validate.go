package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			switch name {
			case "-":
				return "id"
			case "":
				return strings.ToLower(f.Name)
			}
			return name
		})
	})
	return validate
}

// Validate checks the client-side preconditions of a request payload. A
// failure is a *ValidationError shaped like the server's, so views render
// both the same way.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %T: %w", v, err)
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}
	return &ValidationError{Message: "The given data was invalid.", Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "eqfield":
		return fmt.Sprintf("The %s does not match.", field)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("The %s must be greater than %s.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "e164":
		return fmt.Sprintf("The %s must be a phone number in international format.", field)
	case "alphanum":
		return fmt.Sprintf("The %s may only contain letters and numbers.", field)
	case "datetime":
		return fmt.Sprintf("The %s must be a date in the format %s.", field, fe.Param())
	}
	return fmt.Sprintf("The %s is invalid.", field)
}
