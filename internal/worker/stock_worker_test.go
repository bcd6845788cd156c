package worker_test

import (
	"context"
	"encoding/json"
	"testing"

	"canteenpos/internal/dto"
	"canteenpos/internal/model"
	"canteenpos/internal/repository"
	"canteenpos/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProductRepo struct {
	product *model.Product
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	if r.product == nil || r.product.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return r.product, nil
}

func (r *fakeProductRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status string) error {
	r.product.Status = status
	return nil
}

func (r *fakeProductRepo) Create(context.Context, *model.Product) error { return nil }
func (r *fakeProductRepo) List(context.Context, dto.ProductFilter) ([]model.Product, int64, error) {
	return nil, 0, nil
}
func (r *fakeProductRepo) Update(context.Context, *model.Product) error { return nil }
func (r *fakeProductRepo) CreateComponent(context.Context, *model.BundleComponent) error {
	return nil
}
func (r *fakeProductRepo) ListComponents(context.Context, uuid.UUID) ([]model.BundleComponent, error) {
	return nil, nil
}
func (r *fakeProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}
var _ repository.ProductRepository = (*fakeProductRepo)(nil)

type fakeInventoryRepo struct {
	available int
}

func (r *fakeInventoryRepo) SumByProduct(context.Context, uuid.UUID) (int, error) {
	return r.available, nil
}
func (r *fakeInventoryRepo) ListByProduct(context.Context, uuid.UUID) ([]model.InventoryRecord, error) {
	return nil, nil
}
func (r *fakeInventoryRepo) Create(context.Context, *model.InventoryRecord) error { return nil }
func (r *fakeInventoryRepo) OpenRecordsTx(*gorm.DB, uuid.UUID) ([]model.InventoryRecord, error) {
	return nil, nil
}
func (r *fakeInventoryRepo) UpdateQuantityTx(*gorm.DB, uuid.UUID, int) error { return nil }
func (r *fakeInventoryRepo) CreateTx(*gorm.DB, *model.InventoryRecord) error { return nil }

var _ repository.InventoryRepository = (*fakeInventoryRepo)(nil)

func payloadFor(id uuid.UUID) json.RawMessage {
	data, _ := json.Marshal(worker.StockCheckPayload{ProductID: id.String()})
	return data
}

func TestStockWorkerFlipsDrainedProductOutOfStock(t *testing.T) {
	p := &model.Product{ID: uuid.New(), Name: "Fried Egg", Stockable: true, Status: model.ProductActive}
	products := &fakeProductRepo{product: p}
	w := worker.NewStockWorker(products, &fakeInventoryRepo{available: 0})

	require.NoError(t, w.Process(context.Background(), payloadFor(p.ID)))
	assert.Equal(t, model.ProductOutOfStock, p.Status)
}

func TestStockWorkerReactivatesRestockedProduct(t *testing.T) {
	p := &model.Product{ID: uuid.New(), Name: "Fried Egg", Stockable: true, Status: model.ProductOutOfStock}
	products := &fakeProductRepo{product: p}
	w := worker.NewStockWorker(products, &fakeInventoryRepo{available: 12})

	require.NoError(t, w.Process(context.Background(), payloadFor(p.ID)))
	assert.Equal(t, model.ProductActive, p.Status)
}

func TestStockWorkerSkipsNonStockable(t *testing.T) {
	p := &model.Product{ID: uuid.New(), Name: "Rice", Stockable: false, Status: model.ProductActive}
	products := &fakeProductRepo{product: p}
	w := worker.NewStockWorker(products, &fakeInventoryRepo{available: 0})

	require.NoError(t, w.Process(context.Background(), payloadFor(p.ID)))
	assert.Equal(t, model.ProductActive, p.Status, "non-stockable products never flip")
}

func TestStockWorkerBadPayload(t *testing.T) {
	w := worker.NewStockWorker(&fakeProductRepo{}, &fakeInventoryRepo{})
	assert.Error(t, w.Process(context.Background(), json.RawMessage(`{"product_id":"nope"}`)))
}
