package service

import (
	"context"
	"fmt"

	"canteenpos/internal/dto"
	"canteenpos/internal/model"
	"canteenpos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnlimitedStock is the availability sentinel for non-stockable products and
// for bundles whose components are all non-stockable.
const UnlimitedStock = 999999

// InventoryService maintains the append-style stock ledger: non-negative,
// auditable stock per product, with bundle-aware availability queries.
type InventoryService interface {
	AvailableStock(ctx context.Context, productID uuid.UUID) (int, error)
	// ProductStock resolves availability per variant: ledger sum for simple
	// stockable products, component bottleneck for bundles, UnlimitedStock
	// for non-stockable products.
	ProductStock(ctx context.Context, p *model.Product) (int, error)
	BundleAvailableStock(ctx context.Context, p *model.Product) (int, error)
	AddStock(ctx context.Context, req dto.AddStockRequest) (*model.InventoryRecord, error)
	ListRecords(ctx context.Context, productID uuid.UUID) (*dto.InventoryListResponse, error)

	// DeductTx and RestoreTx are called within an order transaction —
	// they require the live *gorm.DB tx so all movements commit atomically.
	DeductTx(tx *gorm.DB, p *model.Product, quantity int) error
	RestoreTx(tx *gorm.DB, productID uuid.UUID, quantity int, source string) error
}

type inventoryService struct {
	repo        repository.InventoryRepository
	productRepo repository.ProductRepository
}

func NewInventoryService(repo repository.InventoryRepository, productRepo repository.ProductRepository) InventoryService {
	return &inventoryService{repo: repo, productRepo: productRepo}
}

func (s *inventoryService) AvailableStock(ctx context.Context, productID uuid.UUID) (int, error) {
	return s.repo.SumByProduct(ctx, productID)
}

func (s *inventoryService) ProductStock(ctx context.Context, p *model.Product) (int, error) {
	if p.IsBundle() {
		return s.BundleAvailableStock(ctx, p)
	}
	if !p.Stockable {
		return UnlimitedStock, nil
	}
	return s.AvailableStock(ctx, p.ID)
}

// BundleAvailableStock computes the bundle bottleneck: the minimum over
// stockable components of floor(componentStock / componentQuantity).
// Non-stockable components never constrain the bundle; a bundle with no
// stockable component at all is unlimited.
func (s *inventoryService) BundleAvailableStock(ctx context.Context, p *model.Product) (int, error) {
	stock := UnlimitedStock
	for _, comp := range p.Components {
		if comp.Component == nil || !comp.Component.Stockable {
			continue
		}
		avail, err := s.AvailableStock(ctx, comp.ComponentID)
		if err != nil {
			return 0, err
		}
		if candidate := avail / comp.Quantity; candidate < stock {
			stock = candidate
		}
	}
	return stock, nil
}

func (s *inventoryService) AddStock(ctx context.Context, req dto.AddStockRequest) (*model.InventoryRecord, error) {
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product_id invalid: %w", err)
	}
	if _, err := s.productRepo.FindByID(ctx, pid); err != nil {
		return nil, ErrProductNotFound
	}

	recType := req.Type
	if recType == "" {
		recType = model.RecordTypePurchase
	}
	source := model.SourceManual
	rec := &model.InventoryRecord{
		ProductID: pid,
		Quantity:  req.Quantity,
		Type:      &recType,
		Source:    &source,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *inventoryService) ListRecords(ctx context.Context, productID uuid.UUID) (*dto.InventoryListResponse, error) {
	records, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	available := 0
	items := make([]dto.InventoryRecordResponse, 0, len(records))
	for _, rec := range records {
		available += rec.Quantity
		items = append(items, dto.InventoryRecordResponse{
			ID:        rec.ID.String(),
			ProductID: rec.ProductID.String(),
			Quantity:  rec.Quantity,
			Type:      rec.Type,
			Source:    rec.Source,
			CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.InventoryListResponse{
		ProductID: productID.String(),
		Available: available,
		Records:   items,
	}, nil
}

// DeductTx consumes quantity units from the product's records oldest-first.
// The records are row-locked for the duration of the transaction, so two
// concurrent orders can never both satisfy themselves from the same units.
// No record ever goes negative; drained records stay at zero for the audit
// trail.
func (s *inventoryService) DeductTx(tx *gorm.DB, p *model.Product, quantity int) error {
	records, err := s.repo.OpenRecordsTx(tx, p.ID)
	if err != nil {
		return err
	}

	available := 0
	for _, rec := range records {
		available += rec.Quantity
	}
	if available < quantity {
		return &InsufficientStockError{Product: p.Name, Available: available, Needed: quantity}
	}

	remaining := quantity
	for _, rec := range records {
		if remaining == 0 {
			break
		}
		take := rec.Quantity
		if take > remaining {
			take = remaining
		}
		if err := s.repo.UpdateQuantityTx(tx, rec.ID, rec.Quantity-take); err != nil {
			return err
		}
		remaining -= take
	}
	return nil
}

// RestoreTx inserts a new positive record tagged with the source reason. It
// never merges with or mutates existing records.
func (s *inventoryService) RestoreTx(tx *gorm.DB, productID uuid.UUID, quantity int, source string) error {
	recType := model.RecordTypeReturn
	return s.repo.CreateTx(tx, &model.InventoryRecord{
		ProductID: productID,
		Quantity:  quantity,
		Type:      &recType,
		Source:    &source,
	})
}
