package service

import (
	"context"
	"testing"

	"github.com/kiwiiwik/snackshack-nz/internal/dto"
	"github.com/kiwiiwik/snackshack-nz/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture() (*stubProductRepo, *stubWallpaperRepo, CatalogService) {
	products := newStubProductRepo()
	walls := newStubWallpaperRepo()
	return products, walls, NewCatalogService(products, newStubQuickItemRepo(), walls)
}

func TestAuditOverwritesCountAndStampsTimestamp(t *testing.T) {
	products, _, svc := newCatalogFixture()
	products.add(model.Product{UPCCode: "111", Description: "Choc Fish", Price: money("2.50"), StockLevel: intp(7)})

	resp, err := svc.Audit(context.Background(), "111", 4)
	require.NoError(t, err)
	require.NotNil(t, resp.StockLevel)
	assert.Equal(t, 4, *resp.StockLevel)
	assert.NotEmpty(t, resp.LastAudited)

	assert.Equal(t, 4, *products.stock("111"))
	assert.NotNil(t, products.products["111"].LastAudited)
}

func TestAuditStartsTrackingAnUntrackedProduct(t *testing.T) {
	products, _, svc := newCatalogFixture()
	products.add(model.Product{UPCCode: "333", Description: "Mystery Snack", Price: money("1.00")})

	resp, err := svc.Audit(context.Background(), "333", 12)
	require.NoError(t, err)
	require.NotNil(t, resp.StockLevel)
	assert.Equal(t, 12, *resp.StockLevel)
}

func TestUpdateProductUntrackClearsStock(t *testing.T) {
	products, _, svc := newCatalogFixture()
	products.add(model.Product{UPCCode: "111", Description: "Choc Fish", Price: money("2.50"), StockLevel: intp(7)})

	resp, err := svc.UpdateProduct(context.Background(), "111", dto.UpdateProductRequest{Untrack: true})
	require.NoError(t, err)
	assert.Nil(t, resp.StockLevel)
	assert.Nil(t, products.stock("111"))
}

func TestActivateWallpaperIsExclusive(t *testing.T) {
	_, walls, svc := newCatalogFixture()

	first, err := svc.CreateWallpaper(context.Background(), dto.WallpaperRequest{Name: "Beach", ImageURL: "/a.jpg", Active: true})
	require.NoError(t, err)
	second, err := svc.CreateWallpaper(context.Background(), dto.WallpaperRequest{Name: "Bush", ImageURL: "/b.jpg"})
	require.NoError(t, err)

	require.NoError(t, svc.ActivateWallpaper(context.Background(), second.ID))

	assert.False(t, walls.walls[first.ID].Active)
	assert.True(t, walls.walls[second.ID].Active)
}
