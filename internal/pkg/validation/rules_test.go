package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Role       string  `validate:"omitempty,role"`
	Name       string  `validate:"required,notblank"`
	Phone      *string `validate:"omitempty,phone"`
	EmployeeID string  `validate:"omitempty,employeeid"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func failedTags(err error) []string {
	var tags []string
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			tags = append(tags, fe.Tag())
		}
	}
	return tags
}

func TestRoleRule(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(sample{Name: "Ada", Role: "FACULTY"}))
	assert.NoError(t, v.Struct(sample{Name: "Ada", Role: "student"}))
	assert.NoError(t, v.Struct(sample{Name: "Ada"}))
	assert.Equal(t, []string{TagRole}, failedTags(v.Struct(sample{Name: "Ada", Role: "DEAN"})))
}

func TestNotBlankRule(t *testing.T) {
	v := newValidator(t)

	assert.Equal(t, []string{TagNotBlank}, failedTags(v.Struct(sample{Name: "   "})))
	assert.NoError(t, v.Struct(sample{Name: " Ada "}))
}

func TestPhoneRule(t *testing.T) {
	v := newValidator(t)

	for _, phone := range []string{"+44 20 7946 0958", "(555) 123-4567", "+1 (555) 010-9999", "0123456789"} {
		p := phone
		assert.NoError(t, v.Struct(sample{Name: "Ada", Phone: &p}), phone)
	}
	for _, phone := range []string{"call me", "12", "+", ")555 123 4567", "(555) abc-4567"} {
		p := phone
		assert.Equal(t, []string{TagPhone}, failedTags(v.Struct(sample{Name: "Ada", Phone: &p})), phone)
	}
}

func TestEmployeeIDRule(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(sample{Name: "Ada", EmployeeID: "EMP-0042"}))
	assert.Equal(t, []string{TagEmployeeID}, failedTags(v.Struct(sample{Name: "Ada", EmployeeID: "-EMP 1"})))
}

func TestEveryRuleHasAMessage(t *testing.T) {
	for _, tag := range []string{TagRole, TagNotBlank, TagPhone, TagEmployeeID} {
		assert.NotEmpty(t, Messages[tag], tag)
	}
}
