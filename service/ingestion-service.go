package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"tarkovapi/app_error"
	"tarkovapi/client"
	"tarkovapi/metrics"
	"tarkovapi/model/restmodel"
	"tarkovapi/parser"
	"tarkovapi/repository"
	"tarkovapi/utils"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultRecordCount = 10
	MaxRecordCount     = 100
)

type Fetcher interface {
	Fetch(ctx context.Context, collection string) ([]byte, error)
}

type IngestionStore interface {
	ReconcileItems(ctx context.Context, origin repository.Origin, records []*client.ItemRecord) (*repository.IngestionRecord, error)
	ReconcileTasks(ctx context.Context, origin repository.Origin, records []*client.TaskRecord, rawBatch json.RawMessage) (*repository.IngestionRecord, error)
	GetRecentRecords(ctx context.Context, count int) ([]*repository.IngestionRecord, error)
	GetLatestRecord(ctx context.Context, collection repository.Collection) (*repository.IngestionRecord, error)
}

// IngestionService runs one collection's ingestion at a time: fetch from the
// provider, validate, reconcile in one transaction, then keep the payload as
// the fallback file. When the provider is unavailable the fallback file is
// reconciled instead.
type IngestionService struct {
	fetcher   Fetcher
	store     IngestionStore
	publisher IngestionPublisher
	files     map[repository.Collection]string
	locks     map[repository.Collection]*sync.Mutex
}

// NewIngestionService accepts a nil publisher when no broker is configured.
func NewIngestionService(fetcher Fetcher, store IngestionStore, publisher IngestionPublisher, files map[repository.Collection]string) *IngestionService {
	locks := make(map[repository.Collection]*sync.Mutex, len(repository.Collections))
	for _, collection := range repository.Collections {
		locks[collection] = &sync.Mutex{}
	}
	return &IngestionService{
		fetcher:   fetcher,
		store:     store,
		publisher: publisher,
		files:     files,
		locks:     locks,
	}
}

func (s *IngestionService) exclusive(collection repository.Collection, run func() (*repository.IngestionRecord, error)) (*repository.IngestionRecord, error) {
	lock, ok := s.locks[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", app_error.ErrUnknownCollection, collection)
	}
	if !lock.TryLock() {
		return nil, fmt.Errorf("%s: %w", collection, app_error.ErrReconcileInProgress)
	}
	defer lock.Unlock()
	return run()
}

func (s *IngestionService) Ingest(ctx context.Context, collection repository.Collection) (*repository.IngestionRecord, error) {
	return s.exclusive(collection, func() (*repository.IngestionRecord, error) {
		timer := prometheus.NewTimer(metrics.IngestionDuration.WithLabelValues(string(collection)))
		defer timer.ObserveDuration()
		log := utils.Log.WithField("collection", collection)

		origin := repository.OriginAPI
		payload, err := s.fetcher.Fetch(ctx, string(collection))
		if err != nil {
			if !errors.Is(err, app_error.ErrUpstreamUnavailable) {
				s.countRun(collection, origin, err)
				return nil, err
			}
			log.WithError(err).Warn("upstream unavailable, ingesting the fallback file")
			origin = repository.OriginFile
			payload, err = s.readFallback(collection)
			if err != nil {
				s.countRun(collection, origin, err)
				return nil, err
			}
		}

		record, err := s.reconcile(ctx, collection, origin, payload)
		s.countRun(collection, origin, err)
		if err != nil {
			log.WithError(err).WithField("origin", origin).Error("ingestion rolled back")
			return nil, err
		}
		if origin == repository.OriginAPI {
			if err := s.writeFallback(collection, payload); err != nil {
				log.WithError(err).Warn("could not persist the fallback file")
			}
		}
		s.committed(ctx, record)
		return record, nil
	})
}

// SeedIfEmpty reconciles the fallback file for a collection that has never
// been ingested. It returns a nil record when there was nothing to do.
func (s *IngestionService) SeedIfEmpty(ctx context.Context, collection repository.Collection) (*repository.IngestionRecord, error) {
	_, err := s.store.GetLatestRecord(ctx, collection)
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.exclusive(collection, func() (*repository.IngestionRecord, error) {
		payload, err := s.readFallback(collection)
		if err != nil {
			return nil, err
		}
		record, err := s.reconcile(ctx, collection, repository.OriginFile, payload)
		s.countRun(collection, repository.OriginFile, err)
		if err != nil {
			return nil, err
		}
		s.committed(ctx, record)
		return record, nil
	})
}

func (s *IngestionService) reconcile(ctx context.Context, collection repository.Collection, origin repository.Origin, payload []byte) (*repository.IngestionRecord, error) {
	raw, err := parser.ExtractCollection(payload, string(collection))
	if err != nil {
		return nil, err
	}
	switch collection {
	case repository.CollectionItems:
		records, err := parser.ParseItems(raw)
		if err != nil {
			return nil, err
		}
		return s.store.ReconcileItems(ctx, origin, records)
	case repository.CollectionTasks:
		records, err := parser.ParseTasks(raw)
		if err != nil {
			return nil, err
		}
		return s.store.ReconcileTasks(ctx, origin, records, raw)
	default:
		return nil, fmt.Errorf("%w: %s", app_error.ErrUnknownCollection, collection)
	}
}

func (s *IngestionService) countRun(collection repository.Collection, origin repository.Origin, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.IngestionRunCounter.WithLabelValues(string(collection), string(origin), result).Inc()
}

func (s *IngestionService) committed(ctx context.Context, record *repository.IngestionRecord) {
	metrics.IngestedEntitiesGauge.WithLabelValues(string(record.Source)).Set(float64(record.EntityCount))
	utils.Log.WithFields(logrus.Fields{
		"collection": record.Source,
		"origin":     record.Origin,
		"entities":   record.EntityCount,
		"run":        record.Id,
	}).Info("ingestion committed")
	if s.publisher == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.publisher.Publish(publishCtx, record); err != nil {
		utils.Log.WithError(err).WithField("run", record.Id).Warn("could not publish ingestion run")
	}
}

func (s *IngestionService) readFallback(collection repository.Collection) ([]byte, error) {
	path := s.files[collection]
	if path == "" {
		return nil, fmt.Errorf("%w: no fallback file for %s", app_error.ErrUpstreamUnavailable, collection)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading fallback file: %v", app_error.ErrUpstreamUnavailable, err)
	}
	return payload, nil
}

// writeFallback replaces the file through a rename in the same directory.
func (s *IngestionService) writeFallback(collection repository.Collection, payload []byte) error {
	path := s.files[collection]
	if path == "" {
		return nil
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func ParseRecordCount(value string) int {
	return utils.Clamp(nonNegative(value, DefaultRecordCount), 1, MaxRecordCount)
}

func (s *IngestionService) GetRecentRecords(ctx context.Context, count int) ([]*restmodel.IngestionRecord, error) {
	records, err := s.store.GetRecentRecords(ctx, utils.Clamp(count, 1, MaxRecordCount))
	if err != nil {
		return nil, err
	}
	return utils.Map(records, restmodel.ToIngestionRecordResponse), nil
}
