package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/store-ledger/pkg/zerror"
)

func TestZError(t *testing.T) {
	notFound := zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")

	t.Run("Should match predefined error after wrapping parent", func(t *testing.T) {
		parent := errors.New("boom")
		err := fmt.Errorf("record sale: %w", notFound.WrapParent(parent))

		assert.ErrorIs(t, err, notFound)
		assert.ErrorIs(t, err, parent)
	})

	t.Run("Should match predefined error after changing message", func(t *testing.T) {
		err := notFound.WithMsg("product %d not found", 7)

		assert.ErrorIs(t, err, notFound)
		assert.Equal(t, "product 7 not found", err.Msg())
		assert.Equal(t, zerror.StatusNotFound, err.Status())
	})

	t.Run("Should not match error with another code", func(t *testing.T) {
		other := zerror.NewConflict("DUPLICATE_PRODUCT", "duplicate")

		assert.NotErrorIs(t, other, notFound)
	})

	t.Run("Should extract ZError with errors.As", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", notFound)

		var zErr zerror.ZError
		assert.True(t, errors.As(err, &zErr))
		assert.Equal(t, "PRODUCT_NOT_FOUND", zErr.Code())
	})

	t.Run("Should format parent in error string", func(t *testing.T) {
		err := notFound.WrapParent(errors.New("boom"))

		assert.Equal(t, "Code=PRODUCT_NOT_FOUND, Msg=product not found, Parent=(boom)", err.Error())
	})
}
