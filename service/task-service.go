package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"tarkovapi/app_error"
	"tarkovapi/model/restmodel"
	"tarkovapi/repository"
	"tarkovapi/utils"

	"gorm.io/gorm"
)

type TaskStore interface {
	QueryTasks(ctx context.Context, q repository.TaskQuery) ([]*repository.Task, error)
	GetTasksByIds(ctx context.Context, ids []string) ([]*repository.Task, error)
	GetTaskById(ctx context.Context, id string) (*repository.Task, error)
	GetAllRequirements(ctx context.Context) ([]*repository.TaskRequirement, error)
	CountTasks(ctx context.Context) (*repository.TaskCounts, error)
}

type TaskService struct {
	store    TaskStore
	cache    *ResponseCache
	schedule Schedule
	maxLimit int
}

func NewTaskService(store TaskStore, cache *ResponseCache, schedule Schedule, maxLimit int) *TaskService {
	return &TaskService{
		store:    store,
		cache:    cache,
		schedule: schedule,
		maxLimit: maxLimit,
	}
}

func (s *TaskService) MaxLimit() int {
	return s.maxLimit
}

func (s *TaskService) QueryTasks(ctx context.Context, params TaskQueryParams) ([]byte, error) {
	params.Limit = clampLimit(params.Limit, s.maxLimit)
	return s.cache.Load(repository.CollectionTasks, "query:"+params.CacheKey(), func() (any, error) {
		tasks, err := s.store.QueryTasks(ctx, params.toQuery())
		if err != nil {
			return nil, err
		}
		return utils.Map(tasks, restmodel.ToTaskResponse), nil
	})
}

func (s *TaskService) GetTasksByIds(ctx context.Context, ids []string) ([]byte, error) {
	return loadEach(s.cache, repository.CollectionTasks, ids,
		func(missing []string) ([]*restmodel.Task, error) {
			tasks, err := s.store.GetTasksByIds(ctx, missing)
			if err != nil {
				return nil, err
			}
			return utils.Map(tasks, restmodel.ToTaskResponse), nil
		},
		func(task *restmodel.Task) string { return task.Id },
	)
}

// GetTask shares the per-id cache entries of GetTasksByIds.
func (s *TaskService) GetTask(ctx context.Context, id string) ([]byte, error) {
	return s.cache.Load(repository.CollectionTasks, "id:"+id, func() (any, error) {
		task, err := s.store.GetTaskById(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %s: %w", id, app_error.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		return restmodel.ToTaskResponse(task), nil
	})
}

func (s *TaskService) buildAdjacencyList(ctx context.Context) (AdjacencyList, error) {
	requirements, err := s.store.GetAllRequirements(ctx)
	if err != nil {
		return nil, err
	}
	return BuildAdjacencyList(requirements), nil
}

// GetAdjacencyList is a full scan of the requirement table, so it is cached
// until the next task ingestion like every other task read.
func (s *TaskService) GetAdjacencyList(ctx context.Context) ([]byte, error) {
	return s.cache.Load(repository.CollectionTasks, "adj_list", func() (any, error) {
		return s.buildAdjacencyList(ctx)
	})
}

// GetPrerequisites returns the ids of every task that has to be completed
// before id can be started. It walks the cached adjacency list.
func (s *TaskService) GetPrerequisites(ctx context.Context, id string) ([]byte, error) {
	return s.cache.Load(repository.CollectionTasks, "prerequisites:"+id, func() (any, error) {
		payload, err := s.GetAdjacencyList(ctx)
		if err != nil {
			return nil, err
		}
		var adj AdjacencyList
		if err := json.Unmarshal(payload, &adj); err != nil {
			return nil, err
		}
		return PrerequisiteClosure(adj, id), nil
	})
}

func (s *TaskService) GetTaskStats(ctx context.Context) (*restmodel.TaskStats, error) {
	counts, err := s.store.CountTasks(ctx)
	if err != nil {
		return nil, err
	}
	return &restmodel.TaskStats{
		TasksCount:               counts.Total,
		KappaRequiredCount:       counts.KappaRequired,
		LightkeeperRequiredCount: counts.LightkeeperRequired,
		TimeTillTasksRefreshSecs: secondsUntilNext(s.schedule, repository.CollectionTasks),
	}, nil
}
