package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var templates = map[string]string{
	"required":    "{field} is required",
	"email":       "{field} must be a valid email address",
	"min":         "{field} must be at least {param}",
	"max":         "{field} must be at most {param}",
	"gte":         "{field} must be greater than or equal to {param}",
	"gt":          "{field} must be greater than {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"oneof":       "{field} must be one of {param}",
	"uuid":        "{field} must be a valid UUID",
	"maxfilesize": "{field} must not exceed {param} MB",
}

func message(err error) string {
	var fieldErrs val.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	for _, fe := range fieldErrs {
		if tmpl, ok := templates[fe.Tag()]; ok {
			return strings.NewReplacer("{field}", fe.Field(), "{param}", fe.Param()).Replace(tmpl)
		}
	}

	return fieldErrs.Error()
}
