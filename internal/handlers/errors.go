package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"habit-tracker/backend/internal/logger"
	"habit-tracker/backend/internal/services"
)

const invalidDateMessage = "Invalid date format. Use YYYY-MM-DD"

// errorResponse writes err as a JSON body. Validation failures become 400
// with details, missing records 404 with notFound, anything else 500 with
// internal. Internal causes are logged, never returned.
func errorResponse(c *gin.Context, log logger.Logger, err error, invalid, notFound, internal string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   invalid,
			"details": []services.ValidationError{*ve},
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	default:
		log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": internal})
	}
}

func bindingError(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   message,
		"details": bindingDetails(err),
	})
}

func bindingDetails(err error) []services.ValidationError {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []services.ValidationError{{Message: err.Error()}}
	}

	details := make([]services.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, services.ValidationError{
			Field:   fe.Field(),
			Message: "failed on the '" + fe.Tag() + "' rule",
		})
	}
	return details
}
