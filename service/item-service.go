package service

import (
	"context"
	"tarkovapi/model/restmodel"
	"tarkovapi/repository"
	"tarkovapi/utils"
	"time"
)

type ItemStore interface {
	QueryItems(ctx context.Context, q repository.ItemQuery) ([]*repository.Item, error)
	GetItemsByIds(ctx context.Context, ids []string) ([]*repository.Item, error)
	GetItemHistory(ctx context.Context, itemId string) ([]*repository.HistoricalPricePoint, error)
	CountItems(ctx context.Context) (int64, error)
}

type ItemService struct {
	store    ItemStore
	cache    *ResponseCache
	schedule Schedule
	maxLimit int
}

func NewItemService(store ItemStore, cache *ResponseCache, schedule Schedule, maxLimit int) *ItemService {
	return &ItemService{
		store:    store,
		cache:    cache,
		schedule: schedule,
		maxLimit: maxLimit,
	}
}

func (s *ItemService) MaxLimit() int {
	return s.maxLimit
}

// QueryItems returns the serialized page for params. The limit is clamped
// again here so callers cannot bypass the bound.
func (s *ItemService) QueryItems(ctx context.Context, params ItemQueryParams) ([]byte, error) {
	params.Limit = clampLimit(params.Limit, s.maxLimit)
	return s.cache.Load(repository.CollectionItems, "query:"+params.CacheKey(), func() (any, error) {
		items, err := s.store.QueryItems(ctx, params.toQuery())
		if err != nil {
			return nil, err
		}
		return utils.Map(items, restmodel.ToItemResponse), nil
	})
}

func (s *ItemService) GetItemsByIds(ctx context.Context, ids []string) ([]byte, error) {
	return loadEach(s.cache, repository.CollectionItems, ids,
		func(missing []string) ([]*restmodel.Item, error) {
			items, err := s.store.GetItemsByIds(ctx, missing)
			if err != nil {
				return nil, err
			}
			return utils.Map(items, restmodel.ToItemResponse), nil
		},
		func(item *restmodel.Item) string { return item.Id },
	)
}

func (s *ItemService) GetItemHistory(ctx context.Context, itemId string) ([]byte, error) {
	return s.cache.Load(repository.CollectionItems, "history:"+itemId, func() (any, error) {
		points, err := s.store.GetItemHistory(ctx, itemId)
		if err != nil {
			return nil, err
		}
		if points == nil {
			points = make([]*repository.HistoricalPricePoint, 0)
		}
		return points, nil
	})
}

func (s *ItemService) GetItemStats(ctx context.Context) (*restmodel.ItemStats, error) {
	count, err := s.store.CountItems(ctx)
	if err != nil {
		return nil, err
	}
	return &restmodel.ItemStats{
		ItemsCount:               count,
		TimeTillItemsRefreshSecs: secondsUntilNext(s.schedule, repository.CollectionItems),
	}, nil
}

// secondsUntilNext is 0 when scheduling is disabled.
func secondsUntilNext(schedule Schedule, collection repository.Collection) int64 {
	if schedule == nil {
		return 0
	}
	until, ok := schedule.UntilNext(collection)
	if !ok {
		return 0
	}
	return int64(until / time.Second)
}
