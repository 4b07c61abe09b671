package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/interfaces/http/dto"
)

// SetupValidator makes gin's binding validator report JSON field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// FormatValidationErrors formats binding validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			msg := ValidationMessage(e.Tag(), e.Param())
			if e.Kind() == reflect.String && (e.Tag() == "min" || e.Tag() == "max") {
				msg += " characters"
			}
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: msg,
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

// ValidationMessage returns a human-readable message for a failed validation rule
func ValidationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "This field is required"
	case "min":
		return "Must be at least " + param
	case "max":
		return "Must be at most " + param
	case "len":
		return "Must be exactly " + param + " characters"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + param
	case "gte":
		return "Must be greater than or equal to " + param
	case "lte":
		return "Must be less than or equal to " + param
	case "gt":
		return "Must be greater than " + param
	case "lt":
		return "Must be less than " + param
	case "url", "http_url":
		return "Invalid URL format"
	case "hexcolor":
		return "Must be a hex color such as #1F6FEB"
	case "iso4217":
		return "Must be an ISO 4217 currency code"
	case "email":
		return "Invalid email format"
	case "dive":
		return "Invalid list element"
	default:
		return "Invalid value"
	}
}
