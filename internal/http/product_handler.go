package http

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/store-ledger/internal/model"
	"github.com/tuanvumaihuynh/store-ledger/internal/service"
)

type addProductRequest struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	PerUnitPrice decimal.Decimal `json:"per_unit_price"`
}

type productResponse struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	PerUnitPrice string `json:"per_unit_price"`
	FullPrice    string `json:"full_price"`
}

type productAddedResponse struct {
	Message string          `json:"message"`
	Product productResponse `json:"product"`
}

func toProductResponse(p model.Product) productResponse {
	return productResponse{
		ProductID:    p.ID,
		ProductName:  p.Name,
		Quantity:     p.Quantity,
		PerUnitPrice: p.PerUnitPrice.StringFixed(2),
		FullPrice:    p.FullPrice.StringFixed(2),
	}
}

type productHandler struct {
	productSvc service.ProductService
}

func newProductHandler(productSvc service.ProductService) *productHandler {
	return &productHandler{
		productSvc: productSvc,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.productSvc.ListProducts(r.Context())
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	items := make([]productResponse, 0, len(products))
	for _, product := range products {
		items = append(items, toProductResponse(product))
	}

	return writeJSON(w, http.StatusOK, items)
}

func (h *productHandler) AddProduct(w http.ResponseWriter, r *http.Request) error {
	var req addProductRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	product, err := h.productSvc.AddProduct(r.Context(), service.AddProductParams{
		ID:           req.ProductID,
		Name:         req.ProductName,
		Quantity:     req.Quantity,
		PerUnitPrice: req.PerUnitPrice,
	})
	if err != nil {
		return fmt.Errorf("product service add product: %w", err)
	}

	return writeJSON(w, http.StatusCreated, productAddedResponse{
		Message: fmt.Sprintf("Product '%s' added successfully!", product.Name),
		Product: toProductResponse(product),
	})
}
