package userservice

import (
	"testing"

	"github.com/mbeaufort/inkwell/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	testCases := []struct {
		name  string
		email string
		valid bool
	}{
		{name: "valid email", email: "user@example.com", valid: true},
		{name: "valid email with plus", email: "user+tag@example.co.uk", valid: true},
		{name: "empty email", email: "", valid: false},
		{name: "missing domain", email: "user@", valid: false},
		{name: "missing at sign", email: "user.example.com", valid: false},
		{name: "missing tld", email: "user@example", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateEmail(v, tc.email)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}

func TestValidatePassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "valid password", password: "TestPassword123!", valid: true},
		{name: "empty password", password: "", valid: false},
		{name: "too short", password: "short", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validatePassword(v, tc.password)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}

func TestValidateName(t *testing.T) {
	v := common.NewValidator()
	validateName(v, "")
	assert.False(t, v.Valid())
	assert.Equal(t, "must be provided", v.Errors["name"])
}
