package apperr

import "github.com/tuanvumaihuynh/store-ledger/pkg/zerror"

const (
	ValidationErrorCode        = "VALIDATION_FAILED"
	ProductNotFoundErrorCode   = "PRODUCT_NOT_FOUND"
	InsufficientStockErrorCode = "INSUFFICIENT_STOCK"
	DuplicateProductErrorCode  = "DUPLICATE_PRODUCT"
	StorageFailureErrorCode    = "STORAGE_FAILURE"
)

var (
	ValidationErr        = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	ProductNotFoundErr   = zerror.NewNotFound(ProductNotFoundErrorCode, "Error: Product ID not found.")
	InsufficientStockErr = zerror.NewUnprocessableEntity(InsufficientStockErrorCode, "Error: Insufficient stock.")
	DuplicateProductErr  = zerror.NewConflict(DuplicateProductErrorCode, "Error: Product ID already exists.")
	StorageFailureErr    = zerror.NewInternalServerError(StorageFailureErrorCode, "Error: storage failure.")
)
