package catalog

import "errors"

var (
	ErrNotFound            = errors.New("catalog: record not found")
	ErrDuplicateName       = errors.New("catalog: a category with this name already exists")
	ErrDuplicateSKU        = errors.New("catalog: a product with this SKU already exists")
	ErrCategoryHasProducts = errors.New("catalog: category still has products")
	ErrInsufficientStock   = errors.New("catalog: insufficient stock")
)
