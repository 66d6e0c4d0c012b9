package validator_test

import (
	"errors"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/store-ledger/pkg/validator"
)

type priced struct {
	Name  string          `validate:"required"`
	Price decimal.Decimal `validate:"decimalgte=0"`
}

func TestDefaultValidator(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	t.Run("Should accept zero price", func(t *testing.T) {
		assert.NoError(t, v.Validate(priced{Name: "Widget", Price: decimal.Zero}))
	})

	t.Run("Should reject negative price", func(t *testing.T) {
		err := v.Validate(priced{Name: "Widget", Price: decimal.RequireFromString("-0.01")})
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		var fieldErrs govalidator.ValidationErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Equal(t, "Price", fieldErrs[0].Field())
		assert.Equal(t, "must be greater than or equal to 0", validator.ValidationErrorMessage(fieldErrs[0]))
	})

	t.Run("Should reject missing name", func(t *testing.T) {
		err := v.Validate(priced{Price: decimal.Zero})
		require.Error(t, err)

		var fieldErrs govalidator.ValidationErrors
		require.True(t, errors.As(err, &fieldErrs))
		assert.Equal(t, "required", fieldErrs[0].Tag())
		assert.Equal(t, "field is required", validator.ValidationErrorMessage(fieldErrs[0]))
	})
}
