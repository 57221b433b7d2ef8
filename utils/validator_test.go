package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name       string  `json:"name" validate:"required,max=10"`
	Month      string  `json:"month" validate:"required,month"`
	Status     string  `json:"status" validate:"omitempty,project_status"`
	Priority   string  `json:"priority" validate:"omitempty,project_priority"`
	Member     string  `json:"memberStatus" validate:"omitempty,member_status"`
	Role       string  `json:"role" validate:"omitempty,admin_role"`
	Email      string  `json:"email" validate:"omitempty,email_format"`
	Percentage float64 `json:"percentage" validate:"min=0,max=100"`
}

func TestValidateStruct_Valid(t *testing.T) {
	req := sampleRequest{
		Name:       "Ada",
		Month:      "March",
		Status:     "On Hold",
		Priority:   "Critical",
		Member:     "inactive",
		Role:       "super_admin",
		Email:      "ada@example.com",
		Percentage: 100,
	}
	assert.NoError(t, ValidateStruct(req))
}

func TestValidateStruct_MessagesUseWireNames(t *testing.T) {
	req := sampleRequest{
		Name:       "",
		Month:      "march",
		Status:     "Done",
		Priority:   "Urgent",
		Member:     "away",
		Role:       "root",
		Email:      "not-an-email",
		Percentage: 120,
	}

	err := ValidateStruct(req)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "month must be a full English month name")
	assert.Contains(t, msg, "status must be one of Planning")
	assert.Contains(t, msg, "priority must be one of Low")
	assert.Contains(t, msg, "memberStatus must be active or inactive")
	assert.Contains(t, msg, "role must be super_admin, admin or member")
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "percentage must be at most 100")
}

func TestValidateStruct_StringLength(t *testing.T) {
	err := ValidateStruct(sampleRequest{Name: "Bartholomew the Third", Month: "May"})
	require.Error(t, err)
	assert.Equal(t, "name must be at most 10 characters", err.Error())
}

func TestValidateStruct_PasswordBytes(t *testing.T) {
	type login struct {
		Password string `json:"password" validate:"password_bytes"`
	}

	// 36 two-byte runes: 36 characters, 72 bytes.
	assert.NoError(t, ValidateStruct(login{Password: strings.Repeat("é", 36)}))

	// 40 characters passes a rune count of 72 but is 80 bytes.
	err := ValidateStruct(login{Password: strings.Repeat("é", 40)})
	require.Error(t, err)
	assert.Equal(t, "password must be at most 72 bytes", err.Error())
}
