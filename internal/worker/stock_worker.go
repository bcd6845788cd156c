package worker

import (
	"context"
	"encoding/json"

	"canteenpos/internal/model"
	"canteenpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StockWorker reconciles a product's status with its ledger after orders
// touch it: a stockable product drained to zero flips to out_of_stock and
// comes back to active once stock is restored. Bundles and non-stockable
// products have no direct ledger and are skipped.
type StockWorker struct {
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
}

func NewStockWorker(productRepo repository.ProductRepository, inventoryRepo repository.InventoryRepository) *StockWorker {
	return &StockWorker{productRepo: productRepo, inventoryRepo: inventoryRepo}
}

func (w *StockWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var req StockCheckPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return err
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		return err
	}

	p, err := w.productRepo.FindByID(ctx, pid)
	if err != nil {
		return err
	}
	if !p.Stockable || p.IsBundle() {
		return nil
	}

	available, err := w.inventoryRepo.SumByProduct(ctx, pid)
	if err != nil {
		return err
	}

	switch {
	case available <= 0 && p.Status == model.ProductActive:
		log.Info().Str("product", p.Name).Msg("product drained, marking out_of_stock")
		return w.productRepo.UpdateStatus(ctx, pid, model.ProductOutOfStock)
	case available > 0 && p.Status == model.ProductOutOfStock:
		log.Info().Str("product", p.Name).Int("available", available).Msg("stock restored, marking active")
		return w.productRepo.UpdateStatus(ctx, pid, model.ProductActive)
	}
	return nil
}
