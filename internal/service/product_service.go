package service

import (
	"context"
	"errors"
	"fmt"

	"canteenpos/internal/dto"
	"canteenpos/internal/model"
	"canteenpos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Archive(ctx context.Context, id uuid.UUID) error
	Unarchive(ctx context.Context, id uuid.UUID) error
	AddComponent(ctx context.Context, id uuid.UUID, req dto.AddComponentRequest) (*dto.ProductResponse, error)
	Stock(ctx context.Context, id uuid.UUID) (*dto.StockResponse, error)
}

type productService struct {
	repo      repository.ProductRepository
	inventory InventoryService
}

func NewProductService(repo repository.ProductRepository, inventory InventoryService) ProductService {
	return &productService{repo: repo, inventory: inventory}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	stockable := true
	if req.Stockable != nil {
		stockable = *req.Stockable
	}
	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stockable:   stockable,
		Status:      model.ProductActive,
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("category_id invalid: %w", err)
		}
		p.CategoryID = &cid
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if stockable && req.InitialStock > 0 {
		_, err := s.inventory.AddStock(ctx, dto.AddStockRequest{
			ProductID: p.ID.String(),
			Quantity:  req.InitialStock,
			Type:      model.RecordTypePurchase,
		})
		if err != nil {
			return nil, err
		}
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	p.Name = req.Name
	p.Description = req.Description
	// Price edits never touch historical line items: those carry their own
	// snapshot taken at order time.
	p.Price = req.Price
	if req.Stockable != nil {
		p.Stockable = *req.Stockable
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("category_id invalid: %w", err)
		}
		p.CategoryID = &cid
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

// Archive hides the product from the ordering surface. Historical orders keep
// referencing it.
func (s *productService) Archive(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductNotFound
	}
	return s.repo.UpdateStatus(ctx, id, model.ProductArchived)
}

func (s *productService) Unarchive(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductNotFound
	}
	return s.repo.UpdateStatus(ctx, id, model.ProductActive)
}

func (s *productService) AddComponent(ctx context.Context, id uuid.UUID, req dto.AddComponentRequest) (*dto.ProductResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrProductNotFound
	}
	cid, err := uuid.Parse(req.ComponentID)
	if err != nil {
		return nil, fmt.Errorf("component_id invalid: %w", err)
	}
	if cid == id {
		return nil, errors.New("a bundle cannot contain itself")
	}
	if _, err := s.repo.FindByID(ctx, cid); err != nil {
		return nil, fmt.Errorf("component %s: %w", req.ComponentID, ErrProductNotFound)
	}

	err = s.repo.CreateComponent(ctx, &model.BundleComponent{
		ProductID:   id,
		ComponentID: cid,
		Quantity:    req.Quantity,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.New("component already linked to this bundle")
		}
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Stock(ctx context.Context, id uuid.UUID) (*dto.StockResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	stock, err := s.inventory.ProductStock(ctx, p)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{
		ProductID: p.ID.String(),
		Stock:     stock,
		Bundle:    p.IsBundle(),
		Unlimited: stock == UnlimitedStock,
	}, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	components := make([]dto.ComponentResponse, 0, len(p.Components))
	for _, comp := range p.Components {
		name := ""
		stockable := false
		if comp.Component != nil {
			name = comp.Component.Name
			stockable = comp.Component.Stockable
		}
		components = append(components, dto.ComponentResponse{
			ComponentID: comp.ComponentID.String(),
			Name:        name,
			Quantity:    comp.Quantity,
			Stockable:   stockable,
		})
	}
	var categoryID *string
	categoryName := ""
	if p.CategoryID != nil {
		cid := p.CategoryID.String()
		categoryID = &cid
	}
	if p.Category != nil {
		categoryName = p.Category.Name
	}
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CategoryID:  categoryID,
		Category:    categoryName,
		Stockable:   p.Stockable,
		Bundle:      p.IsBundle(),
		Status:      p.Status,
		Components:  components,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
