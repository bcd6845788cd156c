package repository

import (
	"context"

	"canteenpos/internal/dto"
	"canteenpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products and their
// bundle components. Services depend on this interface, not on the concrete
// GORM implementation, enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// Bundle components
	CreateComponent(ctx context.Context, c *model.BundleComponent) error
	ListComponents(ctx context.Context, productID uuid.UUID) ([]model.BundleComponent, error)

	// Used inside transactions — callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Components.Component").
		Preload("Category").
		First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Preload("Components.Component").First(&p, id).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	// Status filter: "all" = everything, default hides archived products
	switch filter.Status {
	case "all":
		// no filter
	case "":
		q = q.Where("status <> ?", model.ProductArchived)
	default:
		q = q.Where("status = ?", filter.Status)
	}

	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Components.Component").Preload("Category").
		Order("name ASC").Limit(filter.Limit).Offset(offset).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).Update("status", status).Error
}

func (r *productRepo) CreateComponent(ctx context.Context, c *model.BundleComponent) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *productRepo) ListComponents(ctx context.Context, productID uuid.UUID) ([]model.BundleComponent, error) {
	var components []model.BundleComponent
	err := r.db.WithContext(ctx).
		Preload("Component").
		Where("product_id = ?", productID).
		Find(&components).Error
	return components, err
}
