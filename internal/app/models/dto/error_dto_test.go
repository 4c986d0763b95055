package dto

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/unimanage/internal/pkg/validation"
)

func newJSONValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.SetTagName("binding")
	if err := validation.Register(v); err != nil {
		panic(err)
	}
	return v
}

func TestHandleValidationError_FieldErrors(t *testing.T) {
	v := newJSONValidator()

	gpa := 4.5
	err := v.Struct(CreateStudentRequest{EnrollmentDate: "01/09/2024", GPA: &gpa})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)

	fields, ok := detail.Details.([]FieldError)
	require.True(t, ok)

	messages := map[string]string{}
	for _, f := range fields {
		messages[f.Field] = f.Message
	}
	assert.Equal(t, "profileId is required", messages["profileId"])
	assert.Equal(t, "enrollmentDate must be a date in the format 2006-01-02", messages["enrollmentDate"])
	assert.Equal(t, "gpa must be less than or equal to 4", messages["gpa"])
}

func TestHandleValidationError_SingleFieldSetsField(t *testing.T) {
	v := newJSONValidator()

	err := v.Struct(CreateProfileRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@uni.edu", Password: "x", Role: "JANITOR"})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, "role", detail.Field)

	fields, ok := detail.Details.([]FieldError)
	require.True(t, ok)
	assert.Equal(t, "role must be one of: ADMIN FACULTY STUDENT GUEST", fields[0].Message)
}

func TestHandleValidationError_BlankName(t *testing.T) {
	v := newJSONValidator()

	err := v.Struct(CreateProfileRequest{FirstName: "  ", LastName: "Lovelace", Email: "ada@uni.edu", Password: "x"})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, "firstName", detail.Field)
	fields, ok := detail.Details.([]FieldError)
	require.True(t, ok)
	assert.Equal(t, "firstName must not be blank", fields[0].Message)
}

func TestHandleValidationError_NonValidatorError(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))

	assert.Equal(t, ErrorCodeBadRequest, detail.Code)
	assert.Equal(t, "Invalid request format", detail.Message)
	assert.Equal(t, "unexpected EOF", detail.Details)
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]int{"id": 1})

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.False(t, resp.Timestamp.IsZero())
}
