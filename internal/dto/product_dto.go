package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/admin/products.
type ProductFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateProductRequest struct {
	UPCCode     string          `json:"upc_code"    validate:"required,max=50"`
	Description string          `json:"description" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	// StockLevel nil = untracked/unlimited.
	StockLevel *int   `json:"stock_level" validate:"omitempty,min=0"`
	Category   string `json:"category"    validate:"max=50"`
}

type UpdateProductRequest struct {
	Description string           `json:"description" validate:"max=100"`
	Price       *decimal.Decimal `json:"price"`
	StockLevel  *int             `json:"stock_level" validate:"omitempty,min=0"`
	// Untrack switches the product back to unlimited stock.
	Untrack  bool   `json:"untrack"`
	Category string `json:"category" validate:"max=50"`
}

// AuditRequest overwrites the tracked count after a manual shelf recount.
type AuditRequest struct {
	Counted int `json:"counted" validate:"min=0"`
}

type ProductResponse struct {
	UPCCode     string          `json:"upc_code"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	StockLevel  *int            `json:"stock_level,omitempty"`
	Category    string          `json:"category,omitempty"`
	LastAudited string          `json:"last_audited,omitempty"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type QuickItemRequest struct {
	Label        string `json:"label"         validate:"required,max=50"`
	BarcodeValue string `json:"barcode_value" validate:"required,max=50"`
	ImageURL     string `json:"image_url"     validate:"max=255"`
}

type WallpaperRequest struct {
	Name     string `json:"name"      validate:"required,max=100"`
	ImageURL string `json:"image_url" validate:"required,max=255"`
	Active   bool   `json:"active"`
}

type WallpaperResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Active   bool   `json:"active"`
}
