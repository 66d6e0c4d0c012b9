package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/store-ledger/internal/apperr"
)

func TestExecute(t *testing.T) {
	newCmd := func(args ...string) (*options, func() error) {
		cmd, opts := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(append([]string{"--storage", "csv", "--data-dir", t.TempDir()}, args...))
		return opts, func() error { return execute(context.Background(), cmd, opts) }
	}

	t.Run("Should release the store after a successful command", func(t *testing.T) {
		opts, run := newCmd("product", "list")

		require.NoError(t, run())
		assert.Nil(t, opts.cleanup)
	})

	t.Run("Should release the store after a failing command", func(t *testing.T) {
		opts, run := newCmd("sale", "record", "--product-id", "9", "--quantity", "1")

		require.ErrorIs(t, run(), apperr.ProductNotFoundErr)
		assert.Nil(t, opts.cleanup)
	})
}
