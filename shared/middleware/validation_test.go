package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Amount *float64 `validate:"required,ne=0"`
	Type   string   `validate:"required"`
}

func TestValidateRequest(t *testing.T) {
	zero, ten := 0.0, 10.0

	assert.Nil(t, ValidateRequest(sampleRequest{Amount: &ten, Type: "expense"}))

	errs := ValidateRequest(sampleRequest{})
	assert.Len(t, errs, 2)
	assert.Equal(t, "Amount", errs[0].Field)
	assert.Equal(t, "required", errs[0].Type)

	errs = ValidateRequest(sampleRequest{Amount: &zero, Type: "expense"})
	assert.Len(t, errs, 1)
	assert.Equal(t, "ne", errs[0].Type)
}
