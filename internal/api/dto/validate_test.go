package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/spec-kit/course-service/pkg/util"
)

func TestValidate_RegisterRequest(t *testing.T) {
	tests := []struct {
		name       string
		payload    RegisterRequest
		wantFields []string
	}{
		{
			name:    "valid payload",
			payload: RegisterRequest{Name: "Ada Lovelace", Email: "ada@example.com", Password: "longenough"},
		},
		{
			name:       "bad email",
			payload:    RegisterRequest{Name: "Ada Lovelace", Email: "not-an-email", Password: "longenough"},
			wantFields: []string{"Email"},
		},
		{
			name:       "short password",
			payload:    RegisterRequest{Name: "Ada Lovelace", Email: "ada@example.com", Password: "short"},
			wantFields: []string{"Password"},
		},
		{
			name:       "everything missing",
			payload:    RegisterRequest{},
			wantFields: []string{"Name", "Email", "Password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.payload)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var domainErr *apperrors.DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
			for _, field := range tt.wantFields {
				assert.Contains(t, domainErr.Details, field)
			}
		})
	}
}

func TestValidate_EnrollRequest(t *testing.T) {
	assert.NoError(t, Validate(EnrollRequest{CourseID: "0b8fca5e-24f0-4b1b-8f2e-6b2f54de10aa"}))

	err := Validate(EnrollRequest{CourseID: "42"})
	var domainErr *apperrors.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Contains(t, domainErr.Details, "CourseID")
}
