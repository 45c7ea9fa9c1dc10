// Package validation holds input checks shared by the HTTP layer and the
// services.
package validation

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"habit-tracker/backend/internal/models"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsDate reports whether s is a real calendar date in YYYY-MM-DD form.
// "2024-02-30" has the right shape but is rejected.
func IsDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

func isDateField(fl validator.FieldLevel) bool {
	return IsDate(fl.Field().String())
}

// RegisterBindings adds the isodate tag to gin's validator. Safe to call
// more than once.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("isodate", isDateField)
}
