package cron

import (
	"context"
	"sync"
	"tarkovapi/repository"
	"tarkovapi/utils"
	"time"

	"github.com/sirupsen/logrus"
)

type Ingester interface {
	Ingest(ctx context.Context, collection repository.Collection) (*repository.IngestionRecord, error)
}

type RecurringJob struct {
	Collection repository.Collection
	Interval   time.Duration
	Cancel     context.CancelFunc
	nextRun    time.Time
}

// IngestionScheduler runs one loop per collection: ingest right away, then
// again every interval. It also tells the response cache how long data read
// now stays current.
type IngestionScheduler struct {
	ingester Ingester
	mu       sync.RWMutex
	jobs     map[repository.Collection]*RecurringJob
	started  bool
	wg       sync.WaitGroup
}

func NewIngestionScheduler(ingester Ingester, intervals map[repository.Collection]time.Duration) *IngestionScheduler {
	jobs := make(map[repository.Collection]*RecurringJob, len(intervals))
	for collection, interval := range intervals {
		jobs[collection] = &RecurringJob{Collection: collection, Interval: interval}
	}
	return &IngestionScheduler{
		ingester: ingester,
		jobs:     jobs,
	}
}

func (s *IngestionScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	for _, job := range s.jobs {
		jobCtx, cancel := context.WithCancel(ctx)
		job.Cancel = cancel
		job.nextRun = time.Now()
		s.wg.Add(1)
		go s.loop(jobCtx, job)
	}
}

func (s *IngestionScheduler) loop(ctx context.Context, job *RecurringJob) {
	defer s.wg.Done()
	for {
		s.run(ctx, job)
		s.mu.Lock()
		job.nextRun = time.Now().Add(job.Interval)
		s.mu.Unlock()

		timer := time.NewTimer(job.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (s *IngestionScheduler) run(ctx context.Context, job *RecurringJob) {
	log := utils.Log.WithFields(logrus.Fields{"collection": job.Collection, "job": "ingestion"})
	start := time.Now()
	record, err := s.ingester.Ingest(ctx, job.Collection)
	if err != nil {
		log.WithError(err).Error("scheduled ingestion failed")
		return
	}
	log.WithFields(logrus.Fields{
		"origin":   record.Origin,
		"entities": record.EntityCount,
		"took":     time.Since(start),
	}).Info("scheduled ingestion finished")
}

// Stop cancels every loop and waits for running ingestions to return.
func (s *IngestionScheduler) Stop() {
	s.mu.RLock()
	for _, job := range s.jobs {
		if job.Cancel != nil {
			job.Cancel()
		}
	}
	s.mu.RUnlock()
	s.wg.Wait()
}

// UntilNext is zero while a run is due or in progress. Collections without
// a running loop report ok=false.
func (s *IngestionScheduler) UntilNext(collection repository.Collection) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[collection]
	if !ok || !s.started {
		return 0, false
	}
	return max(time.Until(job.nextRun), 0), true
}
