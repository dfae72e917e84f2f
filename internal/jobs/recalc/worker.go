package recalc

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/swipelab/swipelab-backend/internal/logger"
	"github.com/swipelab/swipelab-backend/internal/services"
)

// Trigger is one pending credibility recalculation: the rater who submitted
// and the image they classified.
type Trigger struct {
	UserID  uuid.UUID
	ImageID uuid.UUID
}

// Worker drains queued triggers into the credibility service so scoring never
// blocks the classification request path. Failures are logged and dropped;
// the next trigger for the same rater recomputes from scratch anyway since
// profiles are always fully rebuilt.
type Worker struct {
	log         *logger.Logger
	credibility services.CredibilityService
	queue       chan Trigger
	concurrency int

	startOnce sync.Once
	wg        sync.WaitGroup
}

func NewWorker(baseLog *logger.Logger, credibilityService services.CredibilityService, queueSize, concurrency int) *Worker {
	if queueSize < 1 {
		queueSize = 256
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		log:         baseLog.With("component", "RecalcWorker"),
		credibility: credibilityService,
		queue:       make(chan Trigger, queueSize),
		concurrency: concurrency,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		w.log.Info("Starting credibility recalculation workers", "concurrency", w.concurrency)
		for i := 0; i < w.concurrency; i++ {
			workerID := i + 1
			w.wg.Add(1)
			go w.runLoop(ctx, workerID)
		}
	})
}

// Enqueue offers a trigger without blocking. Returns false when the queue is
// full; the caller decides whether a dropped trigger is worth logging.
func (w *Worker) Enqueue(userID, imageID uuid.UUID) bool {
	select {
	case w.queue <- Trigger{UserID: userID, ImageID: imageID}:
		return true
	default:
		return false
	}
}

// Wait blocks until all worker loops have exited. Intended for shutdown and
// tests, after the Start context is cancelled.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) runLoop(ctx context.Context, workerID int) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			w.log.Info("Recalc worker stopped", "worker_id", workerID)
			return
		case trigger := <-w.queue:
			if err := w.credibility.OnNewClassification(ctx, trigger.UserID, trigger.ImageID); err != nil {
				w.log.Error("Credibility recalculation failed",
					"worker_id", workerID,
					"user_id", trigger.UserID,
					"image_id", trigger.ImageID,
					"error", err,
				)
			}
		}
	}
}
