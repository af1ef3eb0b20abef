package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type passwordPayload struct {
	Password string `validate:"required,petid_password"`
}

func TestPasswordRule(t *testing.T) {
	cv := NewValidator()

	cases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"letters and digits", "hunter4242", true},
		{"exactly eight chars", "abcdefg1", true},
		{"too short", "abc1", false},
		{"digits only", "12345678", false},
		{"letters only", "abcdefgh", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := cv.Validate(&passwordPayload{Password: tc.password})
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestFormatValidationErrors_PasswordMessage(t *testing.T) {
	cv := NewValidator()

	err := cv.Validate(&passwordPayload{Password: "short"})
	assert.Error(t, err)

	fields := cv.FormatValidationErrors(err)
	assert.Contains(t, fields["Password"], "at least 8 characters")
}
