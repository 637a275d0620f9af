package environment

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	tagAbsoluteURL = "absurl"
	tagNonBlank    = "nonblank"
)

// validator.Validate caches struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation(tagAbsoluteURL, isAbsoluteURL); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tagAbsoluteURL, err))
	}
	if err := v.RegisterValidation(tagNonBlank, isNonBlank); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tagNonBlank, err))
	}
	return v
}

// Validate checks every field of cfg and reports all failures at once as an
// *InvalidConfigError.
func Validate(cfg EnvironmentConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate environment: %w", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:  fieldPath(fe.Namespace()),
			Reason: reasonFor(fe.Tag()),
		})
	}
	return &InvalidConfigError{Fields: fields}
}

// ValidateFor runs Validate and also requires isProduction to be set exactly
// when target is Production. Failures carry target.
func ValidateFor(target Target, cfg EnvironmentConfig) error {
	var fields []FieldError
	if wantProduction := target == Production; cfg.IsProduction != wantProduction {
		fields = append(fields, FieldError{
			Field:  "isProduction",
			Reason: fmt.Sprintf("must be %t for the %s target", wantProduction, target),
		})
	}

	if err := Validate(cfg); err != nil {
		var invalid *InvalidConfigError
		if !errors.As(err, &invalid) {
			return err
		}
		fields = append(fields, invalid.Fields...)
	}

	if len(fields) == 0 {
		return nil
	}
	return &InvalidConfigError{Target: target, Fields: fields}
}

// fieldPath drops the root struct name: "EnvironmentConfig.auth.clientId" -> "auth.clientId".
func fieldPath(namespace string) string {
	if idx := strings.IndexByte(namespace, '.'); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func reasonFor(tag string) string {
	switch tag {
	case tagAbsoluteURL:
		return "must be an absolute URL with scheme and host"
	case tagNonBlank:
		return "must not be empty"
	default:
		return "failed " + tag + " check"
	}
}

func isAbsoluteURL(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if strings.TrimSpace(raw) != raw || raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Hostname() != ""
}

func isNonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
