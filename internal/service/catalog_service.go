package service

import (
	"context"
	"time"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/model"
	"github.com/kiwiiwik/snackshack-nz/internal/repository"

	"github.com/rs/zerolog/log"
)

// CatalogService manages products, the kiosk quick item grid and wallpapers.
type CatalogService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, upc string) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	UpdateProduct(ctx context.Context, upc string, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, upc string) error
	// Audit overwrites the tracked count with a manual shelf recount. Stock
	// drift only ever gets corrected here, never inferred.
	Audit(ctx context.Context, upc string, counted int) (*dto.ProductResponse, error)

	CreateQuickItem(ctx context.Context, req dto.QuickItemRequest) (*dto.QuickItemTile, error)
	ListQuickItems(ctx context.Context) ([]dto.QuickItemTile, error)
	UpdateQuickItem(ctx context.Context, id int64, req dto.QuickItemRequest) (*dto.QuickItemTile, error)
	DeleteQuickItem(ctx context.Context, id int64) error

	CreateWallpaper(ctx context.Context, req dto.WallpaperRequest) (*dto.WallpaperResponse, error)
	ListWallpapers(ctx context.Context) ([]dto.WallpaperResponse, error)
	ActivateWallpaper(ctx context.Context, id int64) error
	DeleteWallpaper(ctx context.Context, id int64) error
}

type catalogService struct {
	products   repository.ProductRepository
	quickItems repository.QuickItemRepository
	wallpapers repository.WallpaperRepository
}

func NewCatalogService(
	products repository.ProductRepository,
	quickItems repository.QuickItemRepository,
	wallpapers repository.WallpaperRepository,
) CatalogService {
	return &catalogService{products: products, quickItems: quickItems, wallpapers: wallpapers}
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := model.Product{
		UPCCode:     req.UPCCode,
		Description: req.Description,
		Price:       req.Price,
		StockLevel:  req.StockLevel,
		Category:    req.Category,
	}
	if err := s.products.Create(ctx, &product); err != nil {
		return nil, err
	}
	resp := productToResponse(&product)
	return &resp, nil
}

func (s *catalogService) GetProduct(ctx context.Context, upc string) (*dto.ProductResponse, error) {
	product, err := s.products.FindByUPC(ctx, upc)
	if err != nil {
		return nil, err
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, 0, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data = append(resp.Data, productToResponse(&products[i]))
	}
	return &resp, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, upc string, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.products.FindByUPC(ctx, upc)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	switch {
	case req.Untrack:
		product.StockLevel = nil
	case req.StockLevel != nil:
		product.StockLevel = req.StockLevel
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	resp := productToResponse(product)
	return &resp, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, upc string) error {
	return s.products.Delete(ctx, upc)
}

func (s *catalogService) Audit(ctx context.Context, upc string, counted int) (*dto.ProductResponse, error) {
	product, err := s.products.FindByUPC(ctx, upc)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.products.SetStock(ctx, upc, counted, now); err != nil {
		return nil, err
	}

	previous := "untracked"
	if product.StockLevel != nil {
		previous = "tracked"
	}
	log.Info().
		Str("upc", upc).
		Str("previous", previous).
		Int("counted", counted).
		Msg("stock audit applied")

	product.StockLevel = &counted
	product.LastAudited = &now
	resp := productToResponse(product)
	return &resp, nil
}

// ── Quick items ───────────────────────────────────────────────────────────────

func (s *catalogService) CreateQuickItem(ctx context.Context, req dto.QuickItemRequest) (*dto.QuickItemTile, error) {
	item := model.QuickItem{
		Label:        req.Label,
		BarcodeValue: req.BarcodeValue,
		ImageURL:     req.ImageURL,
	}
	if err := s.quickItems.Create(ctx, &item); err != nil {
		return nil, err
	}
	tile := quickItemToTile(&item)
	return &tile, nil
}

func (s *catalogService) ListQuickItems(ctx context.Context) ([]dto.QuickItemTile, error) {
	items, err := s.quickItems.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuickItemTile, 0, len(items))
	for i := range items {
		out = append(out, quickItemToTile(&items[i]))
	}
	return out, nil
}

func (s *catalogService) UpdateQuickItem(ctx context.Context, id int64, req dto.QuickItemRequest) (*dto.QuickItemTile, error) {
	item, err := s.quickItems.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Label = req.Label
	item.BarcodeValue = req.BarcodeValue
	item.ImageURL = req.ImageURL
	if err := s.quickItems.Update(ctx, item); err != nil {
		return nil, err
	}
	tile := quickItemToTile(item)
	return &tile, nil
}

func (s *catalogService) DeleteQuickItem(ctx context.Context, id int64) error {
	return s.quickItems.Delete(ctx, id)
}

// ── Wallpapers ────────────────────────────────────────────────────────────────

func (s *catalogService) CreateWallpaper(ctx context.Context, req dto.WallpaperRequest) (*dto.WallpaperResponse, error) {
	w := model.Wallpaper{Name: req.Name, ImageURL: req.ImageURL}
	if err := s.wallpapers.Create(ctx, &w); err != nil {
		return nil, err
	}
	if req.Active {
		if err := s.wallpapers.SetActive(ctx, w.ID); err != nil {
			return nil, err
		}
		w.Active = true
	}
	resp := wallpaperToResponse(&w)
	return &resp, nil
}

func (s *catalogService) ListWallpapers(ctx context.Context) ([]dto.WallpaperResponse, error) {
	ws, err := s.wallpapers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WallpaperResponse, 0, len(ws))
	for i := range ws {
		out = append(out, wallpaperToResponse(&ws[i]))
	}
	return out, nil
}

func (s *catalogService) ActivateWallpaper(ctx context.Context, id int64) error {
	if _, err := s.wallpapers.FindByID(ctx, id); err != nil {
		return err
	}
	return s.wallpapers.SetActive(ctx, id)
}

func (s *catalogService) DeleteWallpaper(ctx context.Context, id int64) error {
	return s.wallpapers.Delete(ctx, id)
}

// ── Mappers ───────────────────────────────────────────────────────────────────

func productToResponse(p *model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		UPCCode:     p.UPCCode,
		Description: p.Description,
		Price:       p.Price,
		StockLevel:  p.StockLevel,
		Category:    p.Category,
	}
	if p.LastAudited != nil {
		resp.LastAudited = p.LastAudited.UTC().Format(time.RFC3339)
	}
	return resp
}

func quickItemToTile(q *model.QuickItem) dto.QuickItemTile {
	return dto.QuickItemTile{
		ID:           q.ID,
		Label:        q.Label,
		BarcodeValue: q.BarcodeValue,
		ImageURL:     q.ImageURL,
	}
}

func wallpaperToResponse(w *model.Wallpaper) dto.WallpaperResponse {
	return dto.WallpaperResponse{
		ID:       w.ID,
		Name:     w.Name,
		ImageURL: w.ImageURL,
		Active:   w.Active,
	}
}
