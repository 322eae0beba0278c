package workers

import (
	"context"
	"time"

	"github.com/comitanigiacomo/kanso-lift/internal/core/domain"
	"github.com/comitanigiacomo/kanso-lift/internal/metrics"
	log "github.com/sirupsen/logrus"
)

type PresetSeeder interface {
	SeedPresets(ctx context.Context, userID string) (*domain.BulkResult, error)
}

type SeedJob struct {
	UserID string
}

// SeedWorker fills new accounts with the preset exercise catalogue off the
// request path.
type SeedWorker struct {
	seeder  PresetSeeder
	metrics *metrics.Manager
	jobs    chan SeedJob
	done    chan struct{}
	timeout time.Duration
}

func NewSeedWorker(seeder PresetSeeder, m *metrics.Manager, queueSize int) *SeedWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	return &SeedWorker{
		seeder:  seeder,
		metrics: m,
		jobs:    make(chan SeedJob, queueSize),
		done:    make(chan struct{}),
		timeout: 10 * time.Second,
	}
}

func (w *SeedWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)
		log.Info("seed worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Info("seed worker shutting down")
				return
			}
		}
	}()
}

// Wait blocks until the worker goroutine has returned.
func (w *SeedWorker) Wait() {
	<-w.done
}

// Enqueue never blocks; the job is dropped when the queue is full.
func (w *SeedWorker) Enqueue(userID string) {
	select {
	case w.jobs <- SeedJob{UserID: userID}:
	default:
		w.metrics.SeedJobDropped()
		log.WithField("user_id", userID).Warn("seed worker queue full, dropping job")
	}
}

func (w *SeedWorker) processJob(ctx context.Context, job SeedJob) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	res, err := w.seeder.SeedPresets(ctx, job.UserID)
	if err != nil {
		log.WithField("user_id", job.UserID).WithError(err).Error("failed to seed preset exercises")
		return
	}

	w.metrics.PresetsSeeded(res.Inserted)
	log.WithFields(log.Fields{
		"user_id":  job.UserID,
		"inserted": res.Inserted,
	}).Debug("preset exercises seeded")
}
