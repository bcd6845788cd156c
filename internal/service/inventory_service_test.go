package service_test

import (
	"context"
	"testing"

	"canteenpos/internal/dto"
	"canteenpos/internal/model"
	"canteenpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryFixture() (*stubInventoryRepo, *stubProductRepo, service.InventoryService) {
	invRepo := newStubInventoryRepo()
	prodRepo := newStubProductRepo()
	return invRepo, prodRepo, service.NewInventoryService(invRepo, prodRepo)
}

func stockableProduct(repo *stubProductRepo, name string, price float64) *model.Product {
	return repo.add(&model.Product{
		Name:      name,
		Price:     decimal.NewFromFloat(price),
		Stockable: true,
	})
}

func nonStockableProduct(repo *stubProductRepo, name string, price float64) *model.Product {
	return repo.add(&model.Product{
		Name:      name,
		Price:     decimal.NewFromFloat(price),
		Stockable: false,
	})
}

func bundleOf(repo *stubProductRepo, name string, price float64, parts ...model.BundleComponent) *model.Product {
	b := repo.add(&model.Product{
		Name:      name,
		Price:     decimal.NewFromFloat(price),
		Stockable: true,
	})
	for _, part := range parts {
		part.ProductID = b.ID
		b.Components = append(b.Components, part)
	}
	return b
}

func component(p *model.Product, quantity int) model.BundleComponent {
	return model.BundleComponent{ComponentID: p.ID, Quantity: quantity, Component: p}
}

func TestDeductConsumesOldestFirst(t *testing.T) {
	invRepo, prodRepo, svc := newInventoryFixture()
	egg := stockableProduct(prodRepo, "Fried Egg", 15)
	first := invRepo.addRecord(egg.ID, 5)
	second := invRepo.addRecord(egg.ID, 10)

	err := svc.DeductTx(nil, egg, 7)
	require.NoError(t, err)

	assert.Equal(t, 0, first.Quantity, "oldest record drains first")
	assert.Equal(t, 8, second.Quantity)
}

func TestDeductDrainsToZeroKeepsRecord(t *testing.T) {
	invRepo, prodRepo, svc := newInventoryFixture()
	egg := stockableProduct(prodRepo, "Fried Egg", 15)
	rec := invRepo.addRecord(egg.ID, 4)

	err := svc.DeductTx(nil, egg, 4)
	require.NoError(t, err)

	assert.Equal(t, 0, rec.Quantity)
	assert.Len(t, invRepo.records, 1, "drained records stay for the audit trail")
}

func TestDeductInsufficientStockLeavesLedgerUntouched(t *testing.T) {
	invRepo, prodRepo, svc := newInventoryFixture()
	egg := stockableProduct(prodRepo, "Fried Egg", 15)
	invRepo.addRecord(egg.ID, 2)
	invRepo.addRecord(egg.ID, 1)

	err := svc.DeductTx(nil, egg, 5)

	var insufficient *service.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Fried Egg", insufficient.Product)
	assert.Equal(t, 3, insufficient.Available)
	assert.Equal(t, 5, insufficient.Needed)

	sum, _ := invRepo.SumByProduct(context.Background(), egg.ID)
	assert.Equal(t, 3, sum, "failed deduction must not partially consume")
}

func TestRestoreAppendsNewRecord(t *testing.T) {
	invRepo, prodRepo, svc := newInventoryFixture()
	egg := stockableProduct(prodRepo, "Fried Egg", 15)
	original := invRepo.addRecord(egg.ID, 10)

	require.NoError(t, svc.DeductTx(nil, egg, 3))
	require.NoError(t, svc.RestoreTx(nil, egg.ID, 3, model.SourceOrderCancelled))

	require.Len(t, invRepo.records, 2)
	assert.Equal(t, 7, original.Quantity, "restore never rewrites the consumed record")

	restored := invRepo.records[1]
	assert.Equal(t, 3, restored.Quantity)
	require.NotNil(t, restored.Type)
	assert.Equal(t, model.RecordTypeReturn, *restored.Type)
	require.NotNil(t, restored.Source)
	assert.Equal(t, model.SourceOrderCancelled, *restored.Source)

	sum, _ := invRepo.SumByProduct(context.Background(), egg.ID)
	assert.Equal(t, 10, sum)
}

func TestBundleStockIsComponentBottleneck(t *testing.T) {
	invRepo, prodRepo, svc := newInventoryFixture()
	egg := stockableProduct(prodRepo, "Fried Egg", 15)
	rice := nonStockableProduct(prodRepo, "Rice", 10)
	combo := bundleOf(prodRepo, "Egg & Rice Combo", 30, component(egg, 2), component(rice, 1))
	invRepo.addRecord(egg.ID, 5)

	stock, err := svc.ProductStock(context.Background(), combo)
	require.NoError(t, err)
	assert.Equal(t, 2, stock, "5 eggs at 2 per combo = 2 combos; rice never constrains")
}

func TestBundleOfOnlyNonStockablesIsUnlimited(t *testing.T) {
	_, prodRepo, svc := newInventoryFixture()
	rice := nonStockableProduct(prodRepo, "Rice", 10)
	soup := nonStockableProduct(prodRepo, "Soup", 5)
	combo := bundleOf(prodRepo, "Rice & Soup", 12, component(rice, 1), component(soup, 1))

	stock, err := svc.ProductStock(context.Background(), combo)
	require.NoError(t, err)
	assert.Equal(t, service.UnlimitedStock, stock)
}

func TestNonStockableProductIsUnlimited(t *testing.T) {
	_, prodRepo, svc := newInventoryFixture()
	rice := nonStockableProduct(prodRepo, "Rice", 10)

	stock, err := svc.ProductStock(context.Background(), rice)
	require.NoError(t, err)
	assert.Equal(t, service.UnlimitedStock, stock)
}

func TestAddStockUnknownProduct(t *testing.T) {
	_, _, svc := newInventoryFixture()

	_, err := svc.AddStock(context.Background(), dto.AddStockRequest{
		ProductID: uuid.NewString(),
		Quantity:  10,
	})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestAddStockDefaultsToPurchase(t *testing.T) {
	invRepo, prodRepo, svc := newInventoryFixture()
	egg := stockableProduct(prodRepo, "Fried Egg", 15)

	rec, err := svc.AddStock(context.Background(), dto.AddStockRequest{
		ProductID: egg.ID.String(),
		Quantity:  25,
	})
	require.NoError(t, err)
	require.NotNil(t, rec.Type)
	assert.Equal(t, model.RecordTypePurchase, *rec.Type)
	require.NotNil(t, rec.Source)
	assert.Equal(t, model.SourceManual, *rec.Source)

	sum, _ := invRepo.SumByProduct(context.Background(), egg.ID)
	assert.Equal(t, 25, sum)
}

func TestListRecordsSumsAvailability(t *testing.T) {
	invRepo, prodRepo, svc := newInventoryFixture()
	egg := stockableProduct(prodRepo, "Fried Egg", 15)
	invRepo.addRecord(egg.ID, 12)
	invRepo.addRecord(egg.ID, 0)
	invRepo.addRecord(egg.ID, 8)

	resp, err := svc.ListRecords(context.Background(), egg.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Available)
	assert.Len(t, resp.Records, 3, "zeroed records still appear in the trail")
}
