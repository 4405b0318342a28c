package validation

import (
	"regexp"
	"strings"

	"github.com/legacy-vault-api/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidateEmail checks email presence and shape
func ValidateEmail(email string) []ValidationError {
	var errors []ValidationError
	if email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: email})
	}
	return errors
}

// ValidateRegistration validates a registration payload. Admins cannot
// register through the API, so only owner and dependent pass.
func ValidateRegistration(name, email, password, role string) []ValidationError {
	errors := ValidateEmail(email)

	if strings.TrimSpace(name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}
	if len(password) < 8 {
		errors = append(errors, ValidationError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if role != string(models.RoleOwner) && role != string(models.RoleDependent) {
		errors = append(errors, ValidationError{Field: "role", Message: "role must be owner or dependent", Value: role})
	}

	return errors
}

// ValidateInactivityDays enforces the 1-365 range
func ValidateInactivityDays(days int) []ValidationError {
	if days < 1 || days > 365 {
		return []ValidationError{{
			Field:   "inactivity_days",
			Message: "inactivity days must be between 1 and 365",
			Value:   days,
		}}
	}
	return nil
}

// ValidateEntry validates a vault entry payload
func ValidateEntry(category, title, content string) []ValidationError {
	var errors []ValidationError

	if _, ok := models.ParseCategory(category); !ok {
		errors = append(errors, ValidationError{Field: "category", Message: "invalid category", Value: category})
	}
	if strings.TrimSpace(title) == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	}
	if content == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}

	return errors
}

// ValidateReason validates an access request reason
func ValidateReason(reason string) []ValidationError {
	if strings.TrimSpace(reason) == "" {
		return []ValidationError{{Field: "reason", Message: "reason is required"}}
	}
	return nil
}
