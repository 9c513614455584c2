package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("metrics_path", validateMetricsPath)
}

// validateMetricsPath requires an absolute path outside the API prefix and
// without a query string.
func validateMetricsPath(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" || path[0] != '/' {
		return false
	}
	if strings.HasPrefix(path, "/api/") {
		return false
	}
	return !strings.ContainsRune(path, '?')
}
