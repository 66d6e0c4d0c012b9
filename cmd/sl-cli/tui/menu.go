package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/store-ledger/cmd/sl-cli/output"
	"github.com/tuanvumaihuynh/store-ledger/internal/service"
)

// Mode represents the current screen of the menu
type Mode int

const (
	ModeMenu Mode = iota
	ModeAddProduct
	ModeRecordSale
	ModeView
)

type action int

const (
	actionAddProduct action = iota
	actionRecordSale
	actionViewProducts
	actionViewSales
	actionExit
)

// MenuItem is an entry of the main menu
type MenuItem struct {
	title       string
	description string
	action      action
}

func (i MenuItem) Title() string       { return i.title }
func (i MenuItem) Description() string { return i.description }
func (i MenuItem) FilterValue() string { return i.title }

func menuItems() []list.Item {
	return []list.Item{
		MenuItem{title: "Add Product", description: "Store a new product with its stock and price", action: actionAddProduct},
		MenuItem{title: "Record Sale", description: "Sell units of a product and decrement its stock", action: actionRecordSale},
		MenuItem{title: "View Products", description: "Show every product in storage order", action: actionViewProducts},
		MenuItem{title: "View Sales", description: "Show every recorded sale", action: actionViewSales},
		MenuItem{title: "Exit", description: "Leave the ledger", action: actionExit},
	}
}

type menuItemDelegate struct{}

func (d menuItemDelegate) Height() int                             { return 2 }
func (d menuItemDelegate) Spacing() int                            { return 1 }
func (d menuItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d menuItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(MenuItem)
	if !ok {
		return
	}

	var s string
	if index == m.Index() {
		s = selectedItemStyle.Render("▸ " + i.Title() + "\n  " + mutedStyle.Render(i.Description()))
	} else {
		s = unselectedItemStyle.Render("  " + i.Title() + "\n  " + mutedStyle.Render(i.Description()))
	}

	_, _ = fmt.Fprint(w, s)
}

// Messages
type (
	doneMsg struct {
		message string
	}
	errorMsg struct {
		err error
	}
	viewLoadedMsg struct {
		title   string
		content string
	}
)

// MenuModel is the interactive front end over the product and sale services.
type MenuModel struct {
	ctx      context.Context
	products service.ProductService
	sales    service.SaleService

	mode      Mode
	list      list.Model
	form      Form
	viewTitle string
	view      string
	status    string
	statusErr bool
	width     int
	height    int
}

// NewMenuModel creates the menu model
func NewMenuModel(ctx context.Context, products service.ProductService, sales service.SaleService) MenuModel {
	l := list.New(menuItems(), menuItemDelegate{}, 0, 0)
	l.Title = "Store Ledger"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return MenuModel{
		ctx:      ctx,
		products: products,
		sales:    sales,
		mode:     ModeMenu,
		list:     l,
	}
}

// Mode returns the current screen
func (m MenuModel) Mode() Mode {
	return m.mode
}

// Status returns the last outcome message and whether it is an error
func (m MenuModel) Status() (string, bool) {
	return m.status, m.statusErr
}

// Init initializes the model
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-4, 1))
		return m, nil

	case doneMsg:
		m.mode = ModeMenu
		m.setStatus(msg.message, false)
		return m, nil

	case errorMsg:
		m.mode = ModeMenu
		m.setStatus(output.ErrorMessage(msg.err), true)
		return m, nil

	case viewLoadedMsg:
		m.mode = ModeView
		m.viewTitle = msg.title
		m.view = msg.content
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case ModeMenu:
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "enter":
				item, ok := m.list.SelectedItem().(MenuItem)
				if !ok {
					return m, nil
				}
				return m.selectAction(item.action)
			}

		case ModeAddProduct, ModeRecordSale:
			if msg.String() == "esc" {
				m.mode = ModeMenu
				return m, nil
			}

			submitted, cmd := m.form.Update(msg)
			if !submitted {
				return m, cmd
			}
			return m.submit()

		case ModeView:
			switch msg.String() {
			case "esc", "enter", "q":
				m.mode = ModeMenu
				return m, nil
			}
			return m, nil
		}
	}

	if m.mode == ModeMenu {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if m.mode == ModeAddProduct || m.mode == ModeRecordSale {
		_, cmd := m.form.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m MenuModel) selectAction(a action) (tea.Model, tea.Cmd) {
	m.status = ""

	switch a {
	case actionAddProduct:
		m.mode = ModeAddProduct
		m.form = NewForm("Add Product", "Product ID", "Product Name", "Quantity", "Per Unit Price")
		return m, textinput.Blink
	case actionRecordSale:
		m.mode = ModeRecordSale
		m.form = NewForm("Record Sale", "Product ID", "Quantity Sold")
		return m, textinput.Blink
	case actionViewProducts:
		return m, listProductsCmd(m.ctx, m.products)
	case actionViewSales:
		return m, listSalesCmd(m.ctx, m.sales)
	default:
		return m, tea.Quit
	}
}

func (m MenuModel) submit() (tea.Model, tea.Cmd) {
	values := m.form.Values()

	switch m.mode {
	case ModeAddProduct:
		params, err := parseAddProduct(values)
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		return m, addProductCmd(m.ctx, m.products, params)

	case ModeRecordSale:
		params, err := parseRecordSale(values)
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		return m, recordSaleCmd(m.ctx, m.sales, params)
	}

	return m, nil
}

func (m *MenuModel) setStatus(status string, isErr bool) {
	m.status = status
	m.statusErr = isErr
}

func parseAddProduct(values []string) (service.AddProductParams, error) {
	id, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return service.AddProductParams{}, invalidInput("Product ID must be a whole number")
	}
	quantity, err := strconv.Atoi(values[2])
	if err != nil {
		return service.AddProductParams{}, invalidInput("Quantity must be a whole number")
	}
	price, err := decimal.NewFromString(values[3])
	if err != nil {
		return service.AddProductParams{}, invalidInput("Per Unit Price must be a number")
	}

	return service.AddProductParams{
		ID:           id,
		Name:         values[1],
		Quantity:     quantity,
		PerUnitPrice: price,
	}, nil
}

func parseRecordSale(values []string) (service.RecordSaleParams, error) {
	id, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return service.RecordSaleParams{}, invalidInput("Product ID must be a whole number")
	}
	quantity, err := strconv.Atoi(values[1])
	if err != nil {
		return service.RecordSaleParams{}, invalidInput("Quantity Sold must be a whole number")
	}

	return service.RecordSaleParams{ProductID: id, QuantitySold: quantity}, nil
}

// inputError is an entry that could not be parsed before reaching the services.
type inputError string

func (e inputError) Error() string {
	return "Error: invalid input: " + string(e)
}

func invalidInput(reason string) error {
	return inputError(reason)
}

// Commands
func addProductCmd(ctx context.Context, svc service.ProductService, params service.AddProductParams) tea.Cmd {
	return func() tea.Msg {
		product, err := svc.AddProduct(ctx, params)
		if err != nil {
			return errorMsg{err: err}
		}
		return doneMsg{message: output.ProductAddedMessage(product)}
	}
}

func recordSaleCmd(ctx context.Context, svc service.SaleService, params service.RecordSaleParams) tea.Cmd {
	return func() tea.Msg {
		sale, err := svc.RecordSale(ctx, params)
		if err != nil {
			return errorMsg{err: err}
		}
		return doneMsg{message: output.SaleRecordedMessage(sale)}
	}
}

func listProductsCmd(ctx context.Context, svc service.ProductService) tea.Cmd {
	return func() tea.Msg {
		products, err := svc.ListProducts(ctx)
		if err != nil {
			return errorMsg{err: err}
		}
		return viewLoadedMsg{title: "Products", content: output.ProductsTable(products)}
	}
}

func listSalesCmd(ctx context.Context, svc service.SaleService) tea.Cmd {
	return func() tea.Msg {
		sales, err := svc.ListSales(ctx)
		if err != nil {
			return errorMsg{err: err}
		}
		return viewLoadedMsg{title: "Sales", content: output.SalesTable(sales)}
	}
}

// View renders the UI
func (m MenuModel) View() string {
	var body string

	switch m.mode {
	case ModeMenu:
		body = m.list.View() + "\n" + helpStyle.Render(
			FormatKey("↑/↓", "navigate")+" • "+
				FormatKey("enter", "select")+" • "+
				FormatKey("q", "quit"),
		)

	case ModeAddProduct, ModeRecordSale:
		body = m.form.View() + "\n" + helpStyle.Render(
			FormatKey("tab", "next field")+" • "+
				FormatKey("enter", "submit")+" • "+
				FormatKey("esc", "back"),
		)

	case ModeView:
		body = titleStyle.Render(m.viewTitle) + "\n" + m.view + "\n" +
			helpStyle.Render(FormatKey("enter/esc", "back"))
	}

	if m.status == "" {
		return body
	}

	status := successStyle.Render("✓ " + m.status)
	if m.statusErr {
		status = dangerStyle.Render("✗ " + m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", status)
}

// RunMenu starts the interactive menu
func RunMenu(ctx context.Context, products service.ProductService, sales service.SaleService) error {
	p := tea.NewProgram(NewMenuModel(ctx, products, sales), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
