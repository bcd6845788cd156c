package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"canteenpos/internal/dto"
	"canteenpos/internal/model"
	"canteenpos/internal/repository"
	"canteenpos/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = model.ProductActive
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.add(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	return nil
}

func (r *stubProductRepo) CreateComponent(_ context.Context, c *model.BundleComponent) error {
	p, ok := r.products[c.ProductID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if comp, ok := r.products[c.ComponentID]; ok {
		c.Component = comp
	}
	p.Components = append(p.Components, *c)
	return nil
}

func (r *stubProductRepo) ListComponents(_ context.Context, productID uuid.UUID) ([]model.BundleComponent, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p.Components, nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── In-memory InventoryRepository stub ───────────────────────────────────────

// stubInventoryRepo keeps records in insertion order, which doubles as
// oldest-first for the FIFO deduction path.
type stubInventoryRepo struct {
	records []*model.InventoryRecord
	seq     int
}

func newStubInventoryRepo() *stubInventoryRepo { return &stubInventoryRepo{} }

func (r *stubInventoryRepo) addRecord(productID uuid.UUID, quantity int) *model.InventoryRecord {
	r.seq++
	rec := &model.InventoryRecord{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Unix(int64(r.seq), 0),
	}
	r.records = append(r.records, rec)
	return rec
}

func (r *stubInventoryRepo) SumByProduct(_ context.Context, productID uuid.UUID) (int, error) {
	sum := 0
	for _, rec := range r.records {
		if rec.ProductID == productID {
			sum += rec.Quantity
		}
	}
	return sum, nil
}

func (r *stubInventoryRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.InventoryRecord, error) {
	var out []model.InventoryRecord
	for _, rec := range r.records {
		if rec.ProductID == productID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) Create(_ context.Context, rec *model.InventoryRecord) error {
	r.seq++
	rec.ID = uuid.New()
	rec.CreatedAt = time.Unix(int64(r.seq), 0)
	r.records = append(r.records, rec)
	return nil
}

func (r *stubInventoryRepo) OpenRecordsTx(_ *gorm.DB, productID uuid.UUID) ([]model.InventoryRecord, error) {
	var out []model.InventoryRecord
	for _, rec := range r.records {
		if rec.ProductID == productID && rec.Quantity > 0 {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) UpdateQuantityTx(_ *gorm.DB, recordID uuid.UUID, quantity int) error {
	for _, rec := range r.records {
		if rec.ID == recordID {
			rec.Quantity = quantity
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) CreateTx(_ *gorm.DB, rec *model.InventoryRecord) error {
	return r.Create(context.Background(), rec)
}

// snapshot deep-copies the ledger and returns a func that restores it.
func (r *stubInventoryRepo) snapshot() func() {
	saved := make([]*model.InventoryRecord, len(r.records))
	for i, rec := range r.records {
		copied := *rec
		saved[i] = &copied
	}
	seq := r.seq
	return func() {
		r.records = saved
		r.seq = seq
	}
}

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

// ── In-memory OrderRepository stub ───────────────────────────────────────────

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	sales  map[uuid.UUID]*model.Sale // keyed by order id

	// begin, when set, captures collaborating state at transaction start and
	// returns a restore func applied on rollback. The fixture points it at
	// the inventory stub so failed transactions undo ledger writes the way
	// the database would.
	begin func() func()
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders: make(map[uuid.UUID]*model.Order),
		sales:  make(map[uuid.UUID]*model.Sale),
	}
}

func (r *stubOrderRepo) Transact(_ context.Context, fn func(tx *gorm.DB) error) error {
	savedOrders := make(map[uuid.UUID]*model.Order, len(r.orders))
	for id, o := range r.orders {
		copied := *o
		savedOrders[id] = &copied
	}
	savedSales := make(map[uuid.UUID]*model.Sale, len(r.sales))
	for id, s := range r.sales {
		copied := *s
		savedSales[id] = &copied
	}
	var restore func()
	if r.begin != nil {
		restore = r.begin()
	}
	if err := fn(nil); err != nil {
		r.orders = savedOrders
		r.sales = savedSales
		if restore != nil {
			restore()
		}
		return err
	}
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *o
	copied.Sale = r.sales[id]
	return &copied, nil
}

func (r *stubOrderRepo) ListByAlias(_ context.Context, alias string) ([]model.Order, error) {
	var out []model.Order
	for id, o := range r.orders {
		if o.OrderAlias == alias {
			copied := *o
			copied.Sale = r.sales[id]
			out = append(out, copied)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListPendingBySession(_ context.Context, sessionID string) ([]model.Order, error) {
	var out []model.Order
	for id, o := range r.orders {
		if o.SessionID != nil && *o.SessionID == sessionID && r.sales[id] == nil {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListCompleted(_ context.Context) ([]model.Order, error) {
	var out []model.Order
	for id, o := range r.orders {
		if sale := r.sales[id]; sale != nil {
			copied := *o
			copied.Sale = sale
			out = append(out, copied)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) FindSaleByOrderID(_ context.Context, orderID uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Items {
		if o.Items[i].ID == uuid.Nil {
			o.Items[i].ID = uuid.New()
		}
		o.Items[i].OrderID = o.ID
	}
	o.CreatedAt = time.Now()
	for _, existing := range r.orders {
		if existing.TransactionNumber == o.TransactionNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) MaxSeqOnDayTx(_ *gorm.DB, _ time.Time) (int64, error) {
	var max int64
	for _, o := range r.orders {
		if seq := service.SeqFromTransactionNumber(o.TransactionNumber); seq > max {
			max = seq
		}
	}
	return max, nil
}

func (r *stubOrderRepo) CreateSaleTx(_ *gorm.DB, s *model.Sale) error {
	if _, exists := r.sales[s.OrderID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.OrderID] = s
	return nil
}

func (r *stubOrderRepo) DeleteTx(_ *gorm.DB, orderID uuid.UUID) error {
	if _, ok := r.orders[orderID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.orders, orderID)
	delete(r.sales, orderID)
	return nil
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Capture bridge ───────────────────────────────────────────────────────────

type capturedEvent struct {
	Event   string
	Payload interface{}
}

type captureBridge struct {
	mu     sync.Mutex
	events []capturedEvent
	fail   bool
}

func (b *captureBridge) Publish(_ context.Context, event string, payload interface{}) error {
	if b.fail {
		return errors.New("broadcast transport down")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, capturedEvent{Event: event, Payload: payload})
	return nil
}

func (b *captureBridge) byName(event string) []capturedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []capturedEvent
	for _, e := range b.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
