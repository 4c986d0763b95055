package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/unimanage/internal/app/models"
)

// Validation rule patterns
var (
	// PhonePattern accepts an optional leading + followed by digits, spaces, dashes and
	// parentheses. The first character after the + is a digit or an opening parenthesis.
	PhonePattern = `^\+?[0-9(][0-9 ()\-]{5,28}$`

	// EmployeeIDPattern is letters, digits and dashes, starting with a letter or digit
	EmployeeIDPattern = `^[A-Za-z0-9][A-Za-z0-9\-]*$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Phone      *regexp.Regexp
	EmployeeID *regexp.Regexp
}{
	Phone:      regexp.MustCompile(PhonePattern),
	EmployeeID: regexp.MustCompile(EmployeeIDPattern),
}

// Tag names of the custom rules
const (
	TagRole       = "role"
	TagNotBlank   = "notblank"
	TagPhone      = "phone"
	TagEmployeeID = "employeeid"
)

// Messages holds the human readable suffix for each custom tag
var Messages = map[string]string{
	TagRole:       "must be one of: ADMIN FACULTY STUDENT GUEST",
	TagNotBlank:   "must not be blank",
	TagPhone:      "must be a valid phone number",
	TagEmployeeID: "may only contain letters, digits and dashes",
}

// Register installs the custom rules on v
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		TagRole:       validateRole,
		TagNotBlank:   validateNotBlank,
		TagPhone:      patternRule(CompiledPatterns.Phone),
		TagEmployeeID: patternRule(CompiledPatterns.EmployeeID),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

// validateRole accepts any known role regardless of case
func validateRole(fl validator.FieldLevel) bool {
	_, ok := models.ParseRole(fl.Field().String())
	return ok
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func patternRule(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(strings.TrimSpace(fl.Field().String()))
	}
}
