package repository

import (
	"context"
	"time"

	"canteenpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository is the data access contract for orders, line items and sales.
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListByAlias(ctx context.Context, alias string) ([]model.Order, error)
	ListPendingBySession(ctx context.Context, sessionID string) ([]model.Order, error)
	ListCompleted(ctx context.Context) ([]model.Order, error)
	FindSaleByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Sale, error)

	// Transact runs fn atomically; every mutation inside either commits as
	// one unit or rolls back entirely.
	Transact(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, o *model.Order) error
	MaxSeqOnDayTx(tx *gorm.DB, day time.Time) (int64, error)
	CreateSaleTx(tx *gorm.DB, s *model.Sale) error
	DeleteTx(tx *gorm.DB, orderID uuid.UUID) error
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Sale").
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) ListByAlias(ctx context.Context, alias string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Sale").
		Where("order_alias = ?", alias).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) ListPendingBySession(ctx context.Context, sessionID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Where("session_id = ?", sessionID).
		Where("NOT EXISTS (SELECT 1 FROM sales WHERE sales.order_id = orders.id)").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) ListCompleted(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Sale").
		Where("EXISTS (SELECT 1 FROM sales WHERE sales.order_id = orders.id)").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindSaleByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&s).Error
	return &s, err
}

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

// MaxSeqOnDayTx returns the highest SEQ ordinal issued on the given day,
// parsed out of the stored transaction numbers. Derived from issued numbers
// rather than a row count: cancellations delete order rows, and a count would
// shrink and reissue a number the unique index already saw. Runs inside the
// placement transaction so the read and the insert are one atomic unit; the
// unique index on transaction_number catches the residual same-instant race.
func (r *orderRepo) MaxSeqOnDayTx(tx *gorm.DB, day time.Time) (int64, error) {
	var maxSeq int64
	err := tx.Model(&model.Order{}).
		Where("created_at::date = ?::date", day).
		Where("transaction_number <> ''").
		Select(`COALESCE(MAX(substring(transaction_number from 'SEQ(\d+)$')::bigint), 0)`).
		Scan(&maxSeq).Error
	return maxSeq, err
}

func (r *orderRepo) CreateSaleTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

// DeleteTx removes an order with its line items and attached sale, if any.
func (r *orderRepo) DeleteTx(tx *gorm.DB, orderID uuid.UUID) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderLineItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id = ?", orderID).Delete(&model.Sale{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Order{}, orderID).Error
}
