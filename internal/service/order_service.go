package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"canteenpos/internal/dto"
	"canteenpos/internal/model"
	"canteenpos/internal/notify"
	"canteenpos/internal/repository"
	"canteenpos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxPlaceAttempts bounds the retry on transaction-number collisions. The
// per-day sequence is read inside the placement transaction as the max SEQ
// already issued, so a collision only happens when two placements commit in
// the same instant; the unique index rejects one, and the loser's re-read
// sees the winner's number and advances past it.
const maxPlaceAttempts = 3

type OrderService interface {
	PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*dto.OrderResponse, error)
	ConfirmOrder(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	CancelOrder(ctx context.Context, id uuid.UUID) error
	OrdersByStation(ctx context.Context, station int) ([]dto.OrderResponse, error)
	PendingBySession(ctx context.Context, sessionID string) ([]dto.OrderResponse, error)
	CompletedOrders(ctx context.Context) ([]dto.OrderResponse, error)
}

type orderService struct {
	repo        repository.OrderRepository
	productRepo repository.ProductRepository
	inventory   InventoryService
	bridge      notify.Bridge
	dispatcher  *worker.Dispatcher
}

func NewOrderService(
	repo repository.OrderRepository,
	productRepo repository.ProductRepository,
	inventory InventoryService,
	bridge notify.Bridge,
	dispatcher *worker.Dispatcher,
) OrderService {
	if bridge == nil {
		bridge = notify.Nop{}
	}
	return &orderService{
		repo:        repo,
		productRepo: productRepo,
		inventory:   inventory,
		bridge:      bridge,
		dispatcher:  dispatcher,
	}
}

// ── PlaceOrder ────────────────────────────────────────────────────────────────
// One ACID transaction per placement:
//  1. Session-station consistency guard (outside tx, read-only)
//  2. BEGIN TX: per line item load product, deduct stock (bundle components
//     or the product itself), snapshot the unit price
//  3. Read today's max issued SEQ, derive the transaction number
//  4. Create order + line items, COMMIT
//  5. Best-effort OrderPlaced notification + stock-alert jobs

func (s *orderService) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	orderDate, err := time.Parse("2006-01-02", req.OrderDate)
	if err != nil {
		return nil, fmt.Errorf("order_date invalid: %w", err)
	}

	alias := StationAlias(req.PCNumber)

	// Session-station consistency guard: one browser session may not hold
	// pending orders at two different stations at once.
	if req.SessionID != nil && *req.SessionID != "" {
		pending, err := s.repo.ListPendingBySession(ctx, *req.SessionID)
		if err != nil {
			return nil, err
		}
		for _, p := range pending {
			if p.OrderAlias != alias {
				return nil, &SessionConflictError{ActivePC: p.OrderAlias}
			}
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxPlaceAttempts; attempt++ {
		order, err := s.placeOnce(ctx, req, orderDate, alias)
		if err == nil {
			s.afterPlacement(ctx, req, order)
			return orderToResponse(order), nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("transaction number collision persisted: %w", lastErr)
}

func (s *orderService) placeOnce(ctx context.Context, req dto.PlaceOrderRequest, orderDate time.Time, alias string) (*model.Order, error) {
	order := &model.Order{
		OrderDate:  orderDate,
		OrderAlias: alias,
		SessionID:  req.SessionID,
	}

	txErr := s.repo.Transact(ctx, func(tx *gorm.DB) error {
		total := decimal.Zero

		for _, item := range req.Items {
			pid, err := uuid.Parse(item.ProductID)
			if err != nil {
				return fmt.Errorf("product_id invalid: %w", err)
			}
			p, err := s.productRepo.FindByIDTx(tx, pid)
			if err != nil {
				return fmt.Errorf("product %s: %w", item.ProductID, ErrProductNotFound)
			}
			if p.Status == model.ProductArchived {
				return fmt.Errorf("product %s is archived and cannot be ordered", p.Name)
			}

			if err := s.deductForItem(tx, p, item.Quantity); err != nil {
				return err
			}

			price := p.Price
			if item.Price != nil {
				price = *item.Price
			}
			categoryID := p.CategoryID
			if item.CategoryID != nil {
				cid, err := uuid.Parse(*item.CategoryID)
				if err != nil {
					return fmt.Errorf("category_id invalid: %w", err)
				}
				categoryID = &cid
			}

			order.Items = append(order.Items, model.OrderLineItem{
				ProductID:    pid,
				CategoryID:   categoryID,
				Quantity:     item.Quantity,
				Price:        price,
				Notes:        item.Notes,
				CookingPrefs: item.CookingPreferences,
			})
			total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		seq, err := s.repo.MaxSeqOnDayTx(tx, time.Now())
		if err != nil {
			return err
		}
		order.TransactionNumber = TransactionNumber(time.Now(), req.PCNumber, seq+1)
		order.TotalAmount = total

		return s.repo.CreateTx(tx, order)
	})
	if txErr != nil {
		return nil, txErr
	}
	return order, nil
}

// deductForItem applies the variant-specific deduction rules: bundles consume
// their stockable components, simple stockable products consume their own
// records, non-stockable products are never checked.
func (s *orderService) deductForItem(tx *gorm.DB, p *model.Product, quantity int) error {
	if p.IsBundle() {
		for _, comp := range p.Components {
			if comp.Component == nil || !comp.Component.Stockable {
				continue
			}
			needed := comp.Quantity * quantity
			if err := s.inventory.DeductTx(tx, comp.Component, needed); err != nil {
				return err
			}
		}
		return nil
	}
	if !p.Stockable {
		return nil
	}
	return s.inventory.DeductTx(tx, p, quantity)
}

// afterPlacement runs the best-effort post-commit side effects. A failure
// here never fails the order.
func (s *orderService) afterPlacement(ctx context.Context, req dto.PlaceOrderRequest, order *model.Order) {
	sessionID := ""
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}
	if err := s.bridge.Publish(ctx, notify.EventOrderPlaced, notify.OrderPlaced{
		Station:   req.PCNumber,
		OrderID:   order.ID.String(),
		SessionID: sessionID,
	}); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("order placed notification failed")
	}
	s.enqueueStockChecks(ctx, order)
}

func (s *orderService) enqueueStockChecks(ctx context.Context, order *model.Order) {
	if s.dispatcher == nil {
		return
	}
	for _, item := range order.Items {
		_ = s.dispatcher.EnqueueStockCheck(ctx, item.ProductID.String())
	}
}

// ── ConfirmOrder ──────────────────────────────────────────────────────────────

func (s *orderService) ConfirmOrder(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Sale != nil {
		return nil, ErrAlreadyConfirmed
	}

	sale := &model.Sale{
		OrderID:     order.ID,
		SaleDate:    order.OrderDate,
		TotalAmount: order.TotalAmount,
		TotalOrder:  1,
	}
	txErr := s.repo.Transact(ctx, func(tx *gorm.DB) error {
		return s.repo.CreateSaleTx(tx, sale)
	})
	if txErr != nil {
		// Two concurrent confirmations race on the unique order_id index;
		// the loser reports the same conflict as the pre-check.
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyConfirmed
		}
		return nil, txErr
	}

	station := StationFromAlias(order.OrderAlias)
	if err := s.bridge.Publish(ctx, notify.EventOrderReleased, notify.OrderReleased{
		Station: station,
		OrderID: order.ID.String(),
	}); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("order released notification failed")
	}

	return &dto.SaleResponse{
		ID:          sale.ID.String(),
		OrderID:     sale.OrderID.String(),
		SaleDate:    sale.SaleDate.Format("2006-01-02"),
		TotalAmount: sale.TotalAmount,
		TotalOrder:  sale.TotalOrder,
	}, nil
}

// ── CancelOrder ───────────────────────────────────────────────────────────────
// Restores exactly what placement deducted (bundle components, not the bundle
// itself), deletes line items, any attached sale, and the order — one tx.
// Cancelling an already-confirmed order is permitted and un-sells it.

func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrOrderNotFound
	}

	txErr := s.repo.Transact(ctx, func(tx *gorm.DB) error {
		for _, item := range order.Items {
			p, err := s.productRepo.FindByIDTx(tx, item.ProductID)
			if err != nil {
				return fmt.Errorf("product %s: %w", item.ProductID, ErrProductNotFound)
			}
			if err := s.restoreForItem(tx, p, item.Quantity); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, order.ID)
	})
	if txErr != nil {
		return txErr
	}

	station := StationFromAlias(order.OrderAlias)
	if err := s.bridge.Publish(ctx, notify.EventOrderReleased, notify.OrderReleased{
		Station: station,
		OrderID: order.ID.String(),
	}); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("order released notification failed")
	}
	s.enqueueStockChecks(ctx, order)
	return nil
}

// restoreForItem mirrors deductForItem so cancellation returns every affected
// product to its pre-order availability.
func (s *orderService) restoreForItem(tx *gorm.DB, p *model.Product, quantity int) error {
	if p.IsBundle() {
		for _, comp := range p.Components {
			if comp.Component == nil || !comp.Component.Stockable {
				continue
			}
			if err := s.inventory.RestoreTx(tx, comp.ComponentID, comp.Quantity*quantity, model.SourceOrderCancelled); err != nil {
				return err
			}
		}
		return nil
	}
	if !p.Stockable {
		return nil
	}
	return s.inventory.RestoreTx(tx, p.ID, quantity, model.SourceOrderCancelled)
}

// ── Read operations ───────────────────────────────────────────────────────────

func (s *orderService) OrdersByStation(ctx context.Context, station int) ([]dto.OrderResponse, error) {
	orders, err := s.repo.ListByAlias(ctx, StationAlias(station))
	if err != nil {
		return nil, err
	}
	return ordersToResponses(orders), nil
}

func (s *orderService) PendingBySession(ctx context.Context, sessionID string) ([]dto.OrderResponse, error) {
	orders, err := s.repo.ListPendingBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ordersToResponses(orders), nil
}

func (s *orderService) CompletedOrders(ctx context.Context) ([]dto.OrderResponse, error) {
	orders, err := s.repo.ListCompleted(ctx)
	if err != nil {
		return nil, err
	}
	return ordersToResponses(orders), nil
}

func ordersToResponses(orders []model.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *orderToResponse(&orders[i]))
	}
	return out
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, dto.OrderItemResponse{
			ProductID:          item.ProductID.String(),
			Product:            name,
			Quantity:           item.Quantity,
			Price:              item.Price,
			Notes:              item.Notes,
			CookingPreferences: item.CookingPrefs,
		})
	}
	status := "pending"
	if o.Sale != nil {
		status = "confirmed"
	}
	return &dto.OrderResponse{
		ID:                o.ID.String(),
		OrderDate:         o.OrderDate.Format("2006-01-02"),
		TotalAmount:       o.TotalAmount,
		OrderAlias:        o.OrderAlias,
		SessionID:         o.SessionID,
		TransactionNumber: o.TransactionNumber,
		Status:            status,
		Items:             items,
		CreatedAt:         o.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
