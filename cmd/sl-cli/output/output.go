package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	goValidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/store-ledger/internal/model"
	"github.com/tuanvumaihuynh/store-ledger/pkg/validator"
	"github.com/tuanvumaihuynh/store-ledger/pkg/zerror"
)

const (
	NoProductsMessage = "No products available."
	NoSalesMessage    = "No sales records available."
)

var (
	// Color styles for terminal output
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	headerStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// Success prints a success message
func Success(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprint(w, successStyle.Render("✓ "))
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}

// Error prints an error message
func Error(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprint(w, errorStyle.Render("✗ "))
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}

// Info prints an info message
func Info(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprint(w, infoStyle.Render("ℹ "))
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}

// ProductAddedMessage is shown once a product has been stored.
func ProductAddedMessage(p model.Product) string {
	return fmt.Sprintf("Product '%s' added successfully!", p.Name)
}

// SaleRecordedMessage is shown once a sale has been stored.
func SaleRecordedMessage(s model.Sale) string {
	return fmt.Sprintf("Sale recorded successfully! ProductID: %d, Quantity Sold: %d", s.ProductID, s.QuantitySold)
}

// ErrorMessage renders err for a terminal user. Ledger errors keep their
// user facing message, validation failures list the offending fields.
func ErrorMessage(err error) string {
	var zErr zerror.ZError
	if !errors.As(err, &zErr) {
		return err.Error()
	}

	var vErrs goValidator.ValidationErrors
	if errors.As(zErr.Parent(), &vErrs) {
		fields := make([]string, 0, len(vErrs))
		for _, fe := range vErrs {
			fields = append(fields, fmt.Sprintf("%s %s", fe.Field(), validator.ValidationErrorMessage(fe)))
		}
		return "Error: invalid input: " + strings.Join(fields, "; ")
	}

	return zErr.Msg()
}

// ProductsTable renders products in storage order.
func ProductsTable(products []model.Product) string {
	if len(products) == 0 {
		return NoProductsMessage
	}

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			strconv.Itoa(p.Quantity),
			p.PerUnitPrice.StringFixed(2),
			p.FullPrice.StringFixed(2),
		})
	}

	return newTable(model.ProductColumns, rows)
}

// SalesTable renders sales in storage order.
func SalesTable(sales []model.Sale) string {
	if len(sales) == 0 {
		return NoSalesMessage
	}

	rows := make([][]string, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			strconv.FormatInt(s.ProductID, 10),
			strconv.Itoa(s.QuantitySold),
			strconv.Itoa(s.ProductLeft),
			s.SaleDate.Format(model.DateLayout),
		})
	}

	return newTable(model.SaleColumns, rows)
}

func newTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

type productJSON struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	PerUnitPrice string `json:"per_unit_price"`
	FullPrice    string `json:"full_price"`
}

type saleJSON struct {
	SaleID       int64  `json:"sale_id"`
	ProductID    int64  `json:"product_id"`
	QuantitySold int    `json:"quantity_sold"`
	ProductLeft  int    `json:"product_left"`
	SaleDate     string `json:"sale_date"`
}

// ProductsJSON writes products as an indented JSON array, money with two
// fraction digits.
func ProductsJSON(w io.Writer, products []model.Product) error {
	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toProductJSON(p))
	}
	return writeJSON(w, out)
}

// ProductJSON writes a single product.
func ProductJSON(w io.Writer, p model.Product) error {
	return writeJSON(w, toProductJSON(p))
}

// SalesJSON writes sales as an indented JSON array.
func SalesJSON(w io.Writer, sales []model.Sale) error {
	out := make([]saleJSON, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleJSON(s))
	}
	return writeJSON(w, out)
}

// SaleJSON writes a single sale.
func SaleJSON(w io.Writer, s model.Sale) error {
	return writeJSON(w, toSaleJSON(s))
}

func toProductJSON(p model.Product) productJSON {
	return productJSON{
		ProductID:    p.ID,
		ProductName:  p.Name,
		Quantity:     p.Quantity,
		PerUnitPrice: p.PerUnitPrice.StringFixed(2),
		FullPrice:    p.FullPrice.StringFixed(2),
	}
}

func toSaleJSON(s model.Sale) saleJSON {
	return saleJSON{
		SaleID:       s.ID,
		ProductID:    s.ProductID,
		QuantitySold: s.QuantitySold,
		ProductLeft:  s.ProductLeft,
		SaleDate:     s.SaleDate.Format(model.DateLayout),
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
