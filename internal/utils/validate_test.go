package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/apperr"
)

type lineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type sampleRequest struct {
	Username string        `json:"username" validate:"required,max=5"`
	Email    string        `json:"email" validate:"omitempty,email"`
	Items    []lineRequest `json:"items" validate:"min=1,dive"`
}

func TestValidateStructReportsJSONFieldPaths(t *testing.T) {
	err := ValidateStruct(sampleRequest{
		Username: "toolongname",
		Email:    "nope",
		Items:    []lineRequest{{ProductID: "x"}},
	})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "username")
	assert.Contains(t, appErr.Fields, "email")
	assert.Contains(t, appErr.Fields, "items[0].product_id")
}

func TestValidateStructEmptyList(t *testing.T) {
	err := ValidateStruct(sampleRequest{Username: "bob"})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ensure this list has at least 1 items", appErr.Fields["items"])
}

func TestValidateStructPasses(t *testing.T) {
	assert.NoError(t, ValidateStruct(sampleRequest{
		Username: "bob",
		Items:    []lineRequest{{ProductID: "0b6f9b8e-3f2a-4f57-9a43-5d0c1f0f6f11"}},
	}))
}
