package repository

import (
	"context"
	"fmt"
	"tarkovapi/metrics"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Map struct {
	Id             string `gorm:"primaryKey"`
	Name           string `gorm:"not null"`
	NormalizedName string `gorm:"not null"`
	Players        string
	Description    string
	Wiki           string
}

type Objective struct {
	Id          int               `gorm:"primaryKey;autoIncrement"`
	ExternalId  string            `gorm:"index"`
	TaskId      string            `gorm:"not null;index"`
	Type        string            `gorm:"not null;index"`
	Description string            `gorm:"not null"`
	Maps        []*Map            `gorm:"many2many:objective_maps;constraint:OnDelete:CASCADE"`
	Payload     datatypes.JSONMap `gorm:"type:jsonb"`
}

// TaskRequirement is a prerequisite edge. ReqTaskId carries no foreign key
// because the referenced task may arrive later than the dependent one.
type TaskRequirement struct {
	Id        int    `gorm:"primaryKey;autoIncrement"`
	TaskId    string `gorm:"not null;index"`
	Status    string `gorm:"not null"`
	ReqTaskId string `gorm:"not null;index"`
}

type Task struct {
	Id                  string             `gorm:"primaryKey"`
	Name                string             `gorm:"not null;index"`
	NormalizedName      string             `gorm:"not null"`
	Experience          int                `gorm:"not null"`
	MinPlayerLevel      int                `gorm:"not null;index"`
	Trader              string             `gorm:"not null;index"`
	FactionName         string             `gorm:"not null"`
	KappaRequired       bool               `gorm:"not null"`
	LightkeeperRequired bool               `gorm:"not null"`
	Wiki                string             `gorm:"not null"`
	Objectives          []*Objective       `gorm:"foreignKey:TaskId;constraint:OnDelete:CASCADE"`
	Requirements        []*TaskRequirement `gorm:"foreignKey:TaskId;constraint:OnDelete:CASCADE"`
}

// TaskQuery holds already defaulted and clamped parameters. Empty
// ObjectiveType and Trader mean no restriction.
type TaskQuery struct {
	Search              string
	KappaRequired       bool
	LightkeeperRequired bool
	MaxPlayerLevel      int
	ObjectiveType       string
	Trader              string
	ExcludedIds         []string
	Limit               int
	Offset              int
}

type TaskCounts struct {
	Total               int64 `json:"total"`
	KappaRequired       int64 `json:"kappaRequired"`
	LightkeeperRequired int64 `json:"lightkeeperRequired"`
}

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Objectives", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Objectives.Maps", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Requirements", func(db *gorm.DB) *gorm.DB { return db.Order("req_task_id ASC, id ASC") })
}

func (r *TaskRepository) QueryTasks(ctx context.Context, q TaskQuery) ([]*Task, error) {
	timer := prometheus.NewTimer(metrics.StoreQueryDuration.WithLabelValues("QueryTasks"))
	defer timer.ObserveDuration()

	query := r.withChildren(r.DB.WithContext(ctx).Model(&Task{})).
		Where("tasks.min_player_level <= ?", q.MaxPlayerLevel)
	if q.Search != "" {
		query = query.Where("tasks.name ILIKE ?", likePattern(q.Search))
	}
	if q.KappaRequired {
		query = query.Where("tasks.kappa_required = ?", true)
	}
	if q.LightkeeperRequired {
		query = query.Where("tasks.lightkeeper_required = ?", true)
	}
	if q.Trader != "" {
		query = query.Where("LOWER(tasks.trader) = LOWER(?)", q.Trader)
	}
	if q.ObjectiveType != "" {
		// EXISTS keeps one row per task no matter how many objectives match
		query = query.Where(fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s o WHERE o.task_id = tasks.id AND LOWER(o.type) = LOWER(?))",
			table("objectives"),
		), q.ObjectiveType)
	}
	if len(q.ExcludedIds) > 0 {
		query = query.Where("NOT (tasks.id = ANY(?))", pq.Array(q.ExcludedIds))
	}
	tasks := make([]*Task, 0)
	err := query.
		Order("tasks.id ASC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("error querying tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) GetTasksByIds(ctx context.Context, ids []string) ([]*Task, error) {
	timer := prometheus.NewTimer(metrics.StoreQueryDuration.WithLabelValues("GetTasksByIds"))
	defer timer.ObserveDuration()
	return findByIds[Task](r.withChildren(r.DB.WithContext(ctx)), ids)
}

func (r *TaskRepository) GetTaskById(ctx context.Context, id string) (*Task, error) {
	task := &Task{}
	err := r.withChildren(r.DB.WithContext(ctx)).First(task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetAllRequirements returns every prerequisite edge in a stable order.
func (r *TaskRepository) GetAllRequirements(ctx context.Context) ([]*TaskRequirement, error) {
	timer := prometheus.NewTimer(metrics.StoreQueryDuration.WithLabelValues("GetAllRequirements"))
	defer timer.ObserveDuration()
	requirements := make([]*TaskRequirement, 0)
	err := r.DB.WithContext(ctx).
		Order("task_id ASC, req_task_id ASC, id ASC").
		Find(&requirements).Error
	return requirements, err
}

func (r *TaskRepository) CountTasks(ctx context.Context) (*TaskCounts, error) {
	counts := &TaskCounts{}
	err := r.DB.WithContext(ctx).Model(&Task{}).
		Select(
			"COUNT(*) AS total, " +
				"COUNT(*) FILTER (WHERE kappa_required) AS kappa_required, " +
				"COUNT(*) FILTER (WHERE lightkeeper_required) AS lightkeeper_required",
		).
		Scan(counts).Error
	return counts, err
}
