package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleLine struct {
	Description string `json:"description" validate:"required"`
}

type sampleRequest struct {
	Name  string       `json:"name" validate:"required,max=5"`
	GSTIN string       `json:"gstin" validate:"omitempty,gstin"`
	Email string       `json:"email" validate:"omitempty,email"`
	Lines []sampleLine `json:"lines" validate:"required,min=1,dive"`
}

func TestValidateStruct_FieldNamesAndMessages(t *testing.T) {
	v := NewValidator()

	verr := ValidateStruct(v, &sampleRequest{
		Name:  "too long name",
		GSTIN: "BADGSTIN",
		Email: "nope",
		Lines: []sampleLine{{Description: ""}},
	})

	assert.True(t, verr.HasErrors())
	assert.Equal(t, "must be at most 5 characters", verr.Details["name"])
	assert.Equal(t, "must be a valid 15-character GSTIN", verr.Details["gstin"])
	assert.Equal(t, "must be a valid email address", verr.Details["email"])
	assert.Equal(t, "is required", verr.Details["lines[0].description"])
}

func TestValidateStruct_EmptySlice(t *testing.T) {
	verr := ValidateStruct(NewValidator(), &sampleRequest{Name: "ok", Lines: []sampleLine{}})
	assert.Equal(t, "must contain at least 1 item(s)", verr.Details["lines"])
}

func TestValidateStruct_Valid(t *testing.T) {
	verr := ValidateStruct(NewValidator(), &sampleRequest{
		Name:  "ok",
		GSTIN: "37PEFPS6526R1Z6",
		Lines: []sampleLine{{Description: "Primer"}},
	})
	assert.False(t, verr.HasErrors())
}
