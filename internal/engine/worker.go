package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrWorkerClosed is returned by Recompute after Close.
var ErrWorkerClosed = errors.New("engine: worker closed")

// Request is a snapshot of the inputs for one recomputation.
type Request struct {
	Items  []Item
	At     time.Time
	Cycles int
	PayDay int
}

// Result carries the aggregate view and projection for one Request.
type Result struct {
	Stats      Stats
	Projection []Cycle
}

// Worker owns a goroutine that recomputes plan aggregates off the caller's
// goroutine, so an interactive caller never blocks on the computation. Each
// request carries its own item snapshot and reference time; the worker holds
// no state between requests.
type Worker struct {
	logger   *zap.Logger
	requests chan workerRequest
	done     chan struct{}
	once     sync.Once
}

type workerRequest struct {
	Request
	reply chan Result
}

// NewWorker starts the recompute goroutine.
func NewWorker(logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Worker{
		logger:   logger,
		requests: make(chan workerRequest),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// Recompute submits a snapshot and waits for its result. It honors context
// cancellation both while queueing and while waiting.
func (w *Worker) Recompute(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	wr := workerRequest{Request: req, reply: make(chan Result, 1)}

	select {
	case w.requests <- wr:
	case <-w.done:
		return Result{}, ErrWorkerClosed
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case res := <-wr.reply:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Close stops the worker. Pending Recompute calls return ErrWorkerClosed.
func (w *Worker) Close() {
	w.once.Do(func() {
		close(w.done)
	})
}

func (w *Worker) run() {
	for {
		select {
		case <-w.done:
			return
		case req := <-w.requests:
			start := time.Now()
			res := Result{
				Stats:      MonthlyStats(req.Items, req.At, req.PayDay),
				Projection: Project(w.logger, req.Items, req.At, req.Cycles, req.PayDay),
			}
			w.logger.Debug("plan recomputed",
				zap.String("op", "engine.Worker"),
				zap.Int("items", len(req.Items)),
				zap.Duration("duration", time.Since(start)),
			)
			req.reply <- res
		}
	}
}
