package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports fields by their JSON names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Namespace()
			if i := strings.Index(field, "."); i >= 0 {
				field = field[i+1:]
			}
			switch e.Tag() {
			case "required":
				errs[field] = field + " is required"
			case "min":
				if e.Kind() == reflect.Slice || e.Kind() == reflect.String {
					errs[field] = field + " must have at least " + e.Param() + " items or characters"
				} else {
					errs[field] = field + " must be at least " + e.Param()
				}
			case "max":
				if e.Kind() == reflect.Slice || e.Kind() == reflect.String {
					errs[field] = field + " must have at most " + e.Param() + " items or characters"
				} else {
					errs[field] = field + " must be at most " + e.Param()
				}
			case "oneof":
				errs[field] = field + " must be one of: " + e.Param()
			case "gte":
				errs[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errs[field] = field + " must be less than or equal to " + e.Param()
			default:
				errs[field] = field + " is invalid"
			}
		}
	}

	return errs
}
