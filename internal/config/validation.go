package config

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator"

	"github.com/vividigit/sitebuilder/internal/foundation/errors"
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct constraints and reports the first violation as a
// classified config error.
func Validate(c *Config) error {
	err := structValidator.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.WrapError(err, errors.CategoryValidation, "validate site configuration").Fatal().Build()
	}
	first := verrs[0]
	field := strings.TrimPrefix(first.Namespace(), "Config.")
	return errors.ValidationError("invalid site configuration: "+field+" failed '"+first.Tag()+"'").
		WithContext("field", field).
		WithContext("violations", len(verrs)).
		Build()
}
