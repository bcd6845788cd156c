package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueStockCheck = "jobs:stock-check"

// maxAttempts per job before it lands in the DLQ.
const maxAttempts = 3

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// StockCheckPayload asks the stock worker to re-read one product's
// availability and reconcile its status.
type StockCheckPayload struct {
	ProductID string `json:"product_id"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueStockCheck pushes a stock reconciliation job. Best-effort: callers
// ignore the error, a missed check self-heals on the next placement.
func (d *Dispatcher) EnqueueStockCheck(ctx context.Context, productID string) error {
	return d.enqueue(ctx, QueueStockCheck, "stock-check", StockCheckPayload{ProductID: productID})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Handlers holds the concrete job processors, wired at the composition root.
type Handlers struct {
	Stock *StockWorker
}

// StartWorkerPool launches numWorkers goroutines consuming the job queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *Handlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueStockCheck).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = handlers.Stock.Process(ctx, job.Payload); err == nil {
			return
		}
		log.Warn().Err(err).Str("type", job.Type).Int("attempt", attempt).Msg("job attempt failed")
	}
	SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), maxAttempts)
}
