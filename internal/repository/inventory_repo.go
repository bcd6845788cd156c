package repository

import (
	"context"

	"canteenpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository is the data access contract for the stock ledger.
type InventoryRepository interface {
	SumByProduct(ctx context.Context, productID uuid.UUID) (int, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.InventoryRecord, error)
	Create(ctx context.Context, rec *model.InventoryRecord) error

	// Used inside transactions — callers must pass the tx instance.
	// OpenRecordsTx row-locks the product's non-empty records oldest-first
	// so concurrent deductions of the same product serialize.
	OpenRecordsTx(tx *gorm.DB, productID uuid.UUID) ([]model.InventoryRecord, error)
	UpdateQuantityTx(tx *gorm.DB, recordID uuid.UUID, quantity int) error
	CreateTx(tx *gorm.DB, rec *model.InventoryRecord) error
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) SumByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).Model(&model.InventoryRecord{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").Scan(&sum).Error
	return sum, err
}

func (r *inventoryRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.InventoryRecord, error) {
	var records []model.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	return records, err
}

func (r *inventoryRepo) Create(ctx context.Context, rec *model.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *inventoryRepo) OpenRecordsTx(tx *gorm.DB, productID uuid.UUID) ([]model.InventoryRecord, error) {
	var records []model.InventoryRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND quantity > 0", productID).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	return records, err
}

func (r *inventoryRepo) UpdateQuantityTx(tx *gorm.DB, recordID uuid.UUID, quantity int) error {
	return tx.Model(&model.InventoryRecord{}).
		Where("id = ?", recordID).Update("quantity", quantity).Error
}

func (r *inventoryRepo) CreateTx(tx *gorm.DB, rec *model.InventoryRecord) error {
	return tx.Create(rec).Error
}
