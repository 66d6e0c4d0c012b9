package tui_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/store-ledger/cmd/sl-cli/tui"
	"github.com/tuanvumaihuynh/store-ledger/internal/config"
	"github.com/tuanvumaihuynh/store-ledger/internal/metric"
	"github.com/tuanvumaihuynh/store-ledger/internal/repository"
	"github.com/tuanvumaihuynh/store-ledger/internal/service"
	"github.com/tuanvumaihuynh/store-ledger/pkg/validator"
)

func newModel(t *testing.T) (tui.MenuModel, service.ProductService) {
	t.Helper()

	store := repository.NewMemoryStore()
	v := validator.MustNewDefaultValidator()
	m := metric.NewNop()
	products := service.NewProductService(config.Ledger{RecomputeFullPrice: true}, store, v, m)
	sales := service.NewSaleService(store, products, v, m)

	model := tui.NewMenuModel(context.Background(), products, sales)
	return press(t, model, tea.WindowSizeMsg{Width: 100, Height: 40}), products
}

// press feeds msg to the model, dropping any command it schedules.
func press(t *testing.T, m tui.MenuModel, msg tea.Msg) tui.MenuModel {
	t.Helper()

	next, _ := m.Update(msg)
	model, ok := next.(tui.MenuModel)
	require.True(t, ok)
	return model
}

// enter presses enter and feeds back the message of the command it schedules.
func enter(t *testing.T, m tui.MenuModel) tui.MenuModel {
	t.Helper()

	next, cmd := m.Update(key(tea.KeyEnter))
	model, ok := next.(tui.MenuModel)
	require.True(t, ok)

	if cmd == nil {
		return model
	}
	if msg := cmd(); msg != nil {
		if _, quit := msg.(tea.QuitMsg); !quit {
			model = press(t, model, msg)
		}
	}
	return model
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// choose moves the cursor down n entries and selects the item.
func choose(t *testing.T, m tui.MenuModel, n int) tui.MenuModel {
	t.Helper()
	for range n {
		m = press(t, m, key(tea.KeyDown))
	}
	return enter(t, m)
}

func fillForm(t *testing.T, m tui.MenuModel, values ...string) tui.MenuModel {
	t.Helper()
	for i, v := range values {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(v)})
		if i < len(values)-1 {
			m = press(t, m, key(tea.KeyTab))
		}
	}
	return enter(t, m)
}

func addWidget(t *testing.T, m tui.MenuModel) tui.MenuModel {
	t.Helper()
	m = choose(t, m, 0)
	require.Equal(t, tui.ModeAddProduct, m.Mode())
	return fillForm(t, m, "1", "Widget", "10", "2.50")
}

func TestMenuAddProduct(t *testing.T) {
	t.Run("Should add a product and return to the menu", func(t *testing.T) {
		m, products := newModel(t)

		m = addWidget(t, m)

		assert.Equal(t, tui.ModeMenu, m.Mode())
		status, isErr := m.Status()
		assert.False(t, isErr)
		assert.Equal(t, "Product 'Widget' added successfully!", status)

		got, err := products.ListProducts(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "25.00", got[0].FullPrice.StringFixed(2))
	})

	t.Run("Should keep the form open on unparsable input", func(t *testing.T) {
		m, products := newModel(t)

		m = choose(t, m, 0)
		m = fillForm(t, m, "1", "Widget", "ten", "2.50")

		assert.Equal(t, tui.ModeAddProduct, m.Mode())
		status, isErr := m.Status()
		assert.True(t, isErr)
		assert.Equal(t, "Error: invalid input: Quantity must be a whole number", status)

		got, err := products.ListProducts(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Should report entry constraint violations", func(t *testing.T) {
		m, _ := newModel(t)

		m = choose(t, m, 0)
		m = fillForm(t, m, "1", "Widget", "0", "2.50")

		assert.Equal(t, tui.ModeMenu, m.Mode())
		status, isErr := m.Status()
		assert.True(t, isErr)
		assert.Contains(t, status, "Quantity must be greater than or equal to 1")
	})

	t.Run("Should go back on escape", func(t *testing.T) {
		m, _ := newModel(t)

		m = choose(t, m, 0)
		m = press(t, m, key(tea.KeyEsc))

		assert.Equal(t, tui.ModeMenu, m.Mode())
	})
}

func TestMenuRecordSale(t *testing.T) {
	t.Run("Should record a sale", func(t *testing.T) {
		m, products := newModel(t)
		m = addWidget(t, m)

		m = choose(t, m, 1)
		require.Equal(t, tui.ModeRecordSale, m.Mode())
		m = fillForm(t, m, "1", "3")

		status, isErr := m.Status()
		assert.False(t, isErr)
		assert.Equal(t, "Sale recorded successfully! ProductID: 1, Quantity Sold: 3", status)

		got, err := products.ListProducts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, got[0].Quantity)
	})

	t.Run("Should show ledger errors", func(t *testing.T) {
		m, _ := newModel(t)
		m = addWidget(t, m)

		m = choose(t, m, 1)
		m = fillForm(t, m, "1", "100")
		status, isErr := m.Status()
		assert.True(t, isErr)
		assert.Equal(t, "Error: Insufficient stock.", status)

		m = choose(t, m, 0)
		m = fillForm(t, m, "2", "1")
		status, _ = m.Status()
		assert.Equal(t, "Error: Product ID not found.", status)
	})
}

func TestMenuViews(t *testing.T) {
	t.Run("Should report empty tables", func(t *testing.T) {
		m, _ := newModel(t)

		m = choose(t, m, 2)
		assert.Equal(t, tui.ModeView, m.Mode())
		assert.Contains(t, m.View(), "No products available.")

		m = press(t, m, key(tea.KeyEsc))
		m = choose(t, m, 1)
		assert.Contains(t, m.View(), "No sales records available.")
	})

	t.Run("Should list stored products", func(t *testing.T) {
		m, _ := newModel(t)
		m = addWidget(t, m)

		m = choose(t, m, 2)
		assert.Equal(t, tui.ModeView, m.Mode())
		assert.Contains(t, m.View(), "Widget")
		assert.Contains(t, m.View(), "25.00")
	})
}

func TestMenuQuit(t *testing.T) {
	m, _ := newModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
