package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/store-ledger/internal/model"
	"github.com/tuanvumaihuynh/store-ledger/internal/service"
)

type recordSaleRequest struct {
	ProductID    int64 `json:"product_id"`
	QuantitySold int   `json:"quantity_sold"`
}

type saleResponse struct {
	SaleID       int64  `json:"sale_id"`
	ProductID    int64  `json:"product_id"`
	QuantitySold int    `json:"quantity_sold"`
	ProductLeft  int    `json:"product_left"`
	SaleDate     string `json:"sale_date"`
}

type saleRecordedResponse struct {
	Message string       `json:"message"`
	Sale    saleResponse `json:"sale"`
}

func toSaleResponse(s model.Sale) saleResponse {
	return saleResponse{
		SaleID:       s.ID,
		ProductID:    s.ProductID,
		QuantitySold: s.QuantitySold,
		ProductLeft:  s.ProductLeft,
		SaleDate:     s.SaleDate.Format(model.DateLayout),
	}
}

type saleHandler struct {
	saleSvc service.SaleService
}

func newSaleHandler(saleSvc service.SaleService) *saleHandler {
	return &saleHandler{
		saleSvc: saleSvc,
	}
}

func (h *saleHandler) ListSales(w http.ResponseWriter, r *http.Request) error {
	sales, err := h.saleSvc.ListSales(r.Context())
	if err != nil {
		return fmt.Errorf("sale service list sales: %w", err)
	}

	items := make([]saleResponse, 0, len(sales))
	for _, sale := range sales {
		items = append(items, toSaleResponse(sale))
	}

	return writeJSON(w, http.StatusOK, items)
}

func (h *saleHandler) RecordSale(w http.ResponseWriter, r *http.Request) error {
	var req recordSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	sale, err := h.saleSvc.RecordSale(r.Context(), service.RecordSaleParams{
		ProductID:    req.ProductID,
		QuantitySold: req.QuantitySold,
	})
	if err != nil {
		return fmt.Errorf("sale service record sale: %w", err)
	}

	return writeJSON(w, http.StatusCreated, saleRecordedResponse{
		Message: fmt.Sprintf("Sale recorded successfully! ProductID: %d, Quantity Sold: %d", sale.ProductID, sale.QuantitySold),
		Sale:    toSaleResponse(sale),
	})
}
