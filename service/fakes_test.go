package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"tarkovapi/client"
	"tarkovapi/repository"
	"time"

	"gorm.io/gorm"
)

type fakeSchedule map[repository.Collection]time.Duration

func (s fakeSchedule) UntilNext(collection repository.Collection) (time.Duration, bool) {
	until, ok := s[collection]
	return until, ok
}

type fakeItemStore struct {
	mu          sync.Mutex
	items       map[string]*repository.Item
	queryCalls  int
	byIdsCalls  [][]string
	lastQuery   repository.ItemQuery
	historyRows []*repository.HistoricalPricePoint
}

func newFakeItemStore(items ...*repository.Item) *fakeItemStore {
	store := &fakeItemStore{items: make(map[string]*repository.Item)}
	for _, item := range items {
		store.items[item.Id] = item
	}
	return store
}

func (s *fakeItemStore) sorted() []*repository.Item {
	out := make([]*repository.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out
}

func (s *fakeItemStore) QueryItems(ctx context.Context, q repository.ItemQuery) ([]*repository.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryCalls++
	s.lastQuery = q
	all := s.sorted()
	if q.Offset >= len(all) {
		return []*repository.Item{}, nil
	}
	return all[q.Offset:min(len(all), q.Offset+q.Limit)], nil
}

func (s *fakeItemStore) GetItemsByIds(ctx context.Context, ids []string) ([]*repository.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byIdsCalls = append(s.byIdsCalls, ids)
	out := make([]*repository.Item, 0)
	// reverse order to prove the service sorts the merged result
	for i := len(ids) - 1; i >= 0; i-- {
		if item, ok := s.items[ids[i]]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *fakeItemStore) GetItemHistory(ctx context.Context, itemId string) ([]*repository.HistoricalPricePoint, error) {
	return s.historyRows, nil
}

func (s *fakeItemStore) CountItems(ctx context.Context) (int64, error) {
	return int64(len(s.items)), nil
}

type fakeTaskStore struct {
	tasks        map[string]*repository.Task
	requirements []*repository.TaskRequirement
	scans        int
	queryCalls   int
}

func newFakeTaskStore(tasks ...*repository.Task) *fakeTaskStore {
	store := &fakeTaskStore{tasks: make(map[string]*repository.Task)}
	for _, task := range tasks {
		store.tasks[task.Id] = task
		store.requirements = append(store.requirements, task.Requirements...)
	}
	return store
}

func (s *fakeTaskStore) QueryTasks(ctx context.Context, q repository.TaskQuery) ([]*repository.Task, error) {
	s.queryCalls++
	excluded := make(map[string]bool, len(q.ExcludedIds))
	for _, id := range q.ExcludedIds {
		excluded[id] = true
	}
	out := make([]*repository.Task, 0)
	for _, task := range s.tasks {
		if !excluded[task.Id] {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

func (s *fakeTaskStore) GetTasksByIds(ctx context.Context, ids []string) ([]*repository.Task, error) {
	out := make([]*repository.Task, 0)
	for _, id := range ids {
		if task, ok := s.tasks[id]; ok {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) GetTaskById(ctx context.Context, id string) (*repository.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return task, nil
}

func (s *fakeTaskStore) GetAllRequirements(ctx context.Context) ([]*repository.TaskRequirement, error) {
	s.scans++
	return s.requirements, nil
}

func (s *fakeTaskStore) CountTasks(ctx context.Context) (*repository.TaskCounts, error) {
	counts := &repository.TaskCounts{Total: int64(len(s.tasks))}
	for _, task := range s.tasks {
		if task.KappaRequired {
			counts.KappaRequired++
		}
		if task.LightkeeperRequired {
			counts.LightkeeperRequired++
		}
	}
	return counts, nil
}

type fakeFetcher struct {
	payload []byte
	err     error
}

func (f *fakeFetcher) Fetch(ctx context.Context, collection string) ([]byte, error) {
	return f.payload, f.err
}

type fakeIngestionStore struct {
	mu          sync.Mutex
	items       []*client.ItemRecord
	tasks       []*client.TaskRecord
	rawTasks    json.RawMessage
	origins     []repository.Origin
	latest      *repository.IngestionRecord
	block       chan struct{}
	entered     chan struct{}
	nextRecord  int
	reconciled  int
	recentCount int
}

func (s *fakeIngestionStore) record(collection repository.Collection, origin repository.Origin, count int) *repository.IngestionRecord {
	s.nextRecord++
	s.reconciled++
	s.origins = append(s.origins, origin)
	return &repository.IngestionRecord{
		Id:          s.nextRecord,
		Source:      collection,
		Origin:      origin,
		Timestamp:   time.Now(),
		EntityCount: count,
	}
}

func (s *fakeIngestionStore) ReconcileItems(ctx context.Context, origin repository.Origin, records []*client.ItemRecord) (*repository.IngestionRecord, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = records
	return s.record(repository.CollectionItems, origin, len(records)), nil
}

func (s *fakeIngestionStore) ReconcileTasks(ctx context.Context, origin repository.Origin, records []*client.TaskRecord, rawBatch json.RawMessage) (*repository.IngestionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = records
	s.rawTasks = rawBatch
	return s.record(repository.CollectionTasks, origin, len(records)), nil
}

func (s *fakeIngestionStore) GetRecentRecords(ctx context.Context, count int) ([]*repository.IngestionRecord, error) {
	s.recentCount = count
	return []*repository.IngestionRecord{}, nil
}

func (s *fakeIngestionStore) GetLatestRecord(ctx context.Context, collection repository.Collection) (*repository.IngestionRecord, error) {
	if s.latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.latest, nil
}

type fakePublisher struct {
	published []*repository.IngestionRecord
}

func (p *fakePublisher) Publish(ctx context.Context, record *repository.IngestionRecord) error {
	p.published = append(p.published, record)
	return nil
}
