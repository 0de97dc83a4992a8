package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"tarkovapi/client"
	"tarkovapi/metrics"
	"tarkovapi/utils"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Collection string

const (
	CollectionItems Collection = "items"
	CollectionTasks Collection = "tasks"
)

var Collections = []Collection{CollectionItems, CollectionTasks}

func ParseCollection(name string) (Collection, bool) {
	for _, c := range Collections {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

type Origin string

const (
	OriginAPI  Origin = "api"
	OriginFile Origin = "file"
)

type IngestionRecord struct {
	Id          int        `gorm:"primaryKey;autoIncrement" json:"id"`
	Source      Collection `gorm:"not null;index" json:"source"`
	Origin      Origin     `gorm:"not null" json:"origin"`
	Timestamp   time.Time  `gorm:"not null;index" json:"timestamp"`
	EntityCount int        `gorm:"not null" json:"entityCount"`
}

// HistoricalItemSnapshot has no foreign key to items, it is written before
// the items of its run are upserted.
type HistoricalItemSnapshot struct {
	Id                   int              `gorm:"primaryKey;autoIncrement"`
	IngestionRecordId    int              `gorm:"not null;index"`
	IngestionRecord      *IngestionRecord `gorm:"foreignKey:IngestionRecordId;constraint:OnDelete:CASCADE"`
	ItemId               string           `gorm:"not null;index"`
	Avg24hPrice          *int             `gorm:"column:avg24h_price"`
	ChangeLast48hPercent *float64         `gorm:"column:change_last48h_percent"`
	FleaMarketPrice      *int
}

type TaskBatchSnapshot struct {
	Id                int              `gorm:"primaryKey;autoIncrement"`
	IngestionRecordId int              `gorm:"not null;uniqueIndex"`
	IngestionRecord   *IngestionRecord `gorm:"foreignKey:IngestionRecordId;constraint:OnDelete:CASCADE"`
	Payload           datatypes.JSON   `gorm:"type:jsonb;not null"`
}

type IngestionRepository struct {
	DB *gorm.DB
}

func NewIngestionRepository(db *gorm.DB) *IngestionRepository {
	return &IngestionRepository{DB: db}
}

func (r *IngestionRepository) GetRecentRecords(ctx context.Context, count int) ([]*IngestionRecord, error) {
	records := make([]*IngestionRecord, 0)
	err := r.DB.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Limit(count).
		Find(&records).Error
	return records, err
}

func (r *IngestionRepository) GetLatestRecord(ctx context.Context, collection Collection) (*IngestionRecord, error) {
	record := &IngestionRecord{}
	err := r.DB.WithContext(ctx).
		Where("source = ?", collection).
		Order("timestamp DESC, id DESC").
		First(record).Error
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ReconcileItems merges one batch of provider items in a single transaction.
// Snapshots are taken from the untouched records, type rows are resolved
// next, and only then are items upserted with their types and offers fully
// replaced.
func (r *IngestionRepository) ReconcileItems(ctx context.Context, origin Origin, records []*client.ItemRecord) (*IngestionRecord, error) {
	timer := prometheus.NewTimer(metrics.StoreQueryDuration.WithLabelValues("ReconcileItems"))
	defer timer.ObserveDuration()

	run := &IngestionRecord{Source: CollectionItems, Origin: origin, Timestamp: time.Now().UTC(), EntityCount: len(records)}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("error creating ingestion record: %w", err)
		}
		snapshots := utils.Map(records, func(record *client.ItemRecord) *HistoricalItemSnapshot {
			return &HistoricalItemSnapshot{
				IngestionRecordId:    run.Id,
				ItemId:               record.Id,
				Avg24hPrice:          record.Avg24hPrice,
				ChangeLast48hPercent: record.ChangeLast48hPercent,
				FleaMarketPrice:      record.FleaMarketPrice(),
			}
		})
		if len(snapshots) > 0 {
			if err := tx.Omit(clause.Associations).CreateInBatches(snapshots, 500).Error; err != nil {
				return fmt.Errorf("error saving snapshots: %w", err)
			}
		}

		typeIndex, err := resolveItemTypes(tx, utils.FlatMap(records, func(record *client.ItemRecord) []string { return record.Types }))
		if err != nil {
			return err
		}

		for _, record := range records {
			item := &Item{
				Id:                   record.Id,
				Name:                 record.Name,
				ShortName:            record.ShortName,
				Width:                record.Width,
				Height:               record.Height,
				BasePrice:            record.BasePrice,
				Avg24hPrice:          record.Avg24hPrice,
				ChangeLast48hPercent: record.ChangeLast48hPercent,
				Link:                 record.Link,
			}
			if err := upsert(tx, item); err != nil {
				return fmt.Errorf("error upserting item %s: %w", record.Id, err)
			}
			types := make([]*ItemType, 0, len(record.Types))
			for _, name := range utils.SortedUniques(record.Types) {
				types = append(types, typeIndex[name])
			}
			if err := replaceAssociation(tx, item, "Types", types); err != nil {
				return fmt.Errorf("error replacing types of item %s: %w", record.Id, err)
			}
			if err := tx.Where("item_id = ?", record.Id).Delete(&SellOffer{}).Error; err != nil {
				return fmt.Errorf("error deleting sell offers of item %s: %w", record.Id, err)
			}
			offers := utils.Map(record.SellFor, func(offer client.SellOfferRecord) *SellOffer {
				return &SellOffer{
					ItemId:   record.Id,
					Source:   offer.Source,
					Price:    offer.Price,
					Currency: offer.Currency,
					PriceRub: offer.PriceRUB,
				}
			})
			if len(offers) > 0 {
				if err := tx.Create(&offers).Error; err != nil {
					return fmt.Errorf("error saving sell offers of item %s: %w", record.Id, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ReconcileTasks merges one batch of provider tasks in a single transaction.
// rawBatch is stored verbatim as the run's snapshot.
func (r *IngestionRepository) ReconcileTasks(ctx context.Context, origin Origin, records []*client.TaskRecord, rawBatch json.RawMessage) (*IngestionRecord, error) {
	timer := prometheus.NewTimer(metrics.StoreQueryDuration.WithLabelValues("ReconcileTasks"))
	defer timer.ObserveDuration()

	run := &IngestionRecord{Source: CollectionTasks, Origin: origin, Timestamp: time.Now().UTC(), EntityCount: len(records)}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("error creating ingestion record: %w", err)
		}
		if len(rawBatch) == 0 {
			rawBatch = json.RawMessage("[]")
		}
		snapshot := &TaskBatchSnapshot{IngestionRecordId: run.Id, Payload: datatypes.JSON(rawBatch)}
		if err := tx.Omit(clause.Associations).Create(snapshot).Error; err != nil {
			return fmt.Errorf("error saving task batch snapshot: %w", err)
		}

		mapIndex, err := resolveMaps(tx, records)
		if err != nil {
			return err
		}

		for _, record := range records {
			task := &Task{
				Id:                  record.Id,
				Name:                record.Name,
				NormalizedName:      record.NormalizedName,
				Experience:          record.Experience,
				MinPlayerLevel:      record.MinPlayerLevel,
				Trader:              record.Trader.Name,
				FactionName:         record.FactionName,
				KappaRequired:       record.KappaRequired,
				LightkeeperRequired: record.LightkeeperRequired,
				Wiki:                record.WikiLink,
			}
			if err := upsert(tx, task); err != nil {
				return fmt.Errorf("error upserting task %s: %w", record.Id, err)
			}
			if err := replaceObjectives(tx, record, mapIndex); err != nil {
				return fmt.Errorf("error replacing objectives of task %s: %w", record.Id, err)
			}
			if err := tx.Where("task_id = ?", record.Id).Delete(&TaskRequirement{}).Error; err != nil {
				return fmt.Errorf("error deleting requirements of task %s: %w", record.Id, err)
			}
			requirements := utils.Map(record.TaskRequirements, func(req client.TaskRequirementRecord) *TaskRequirement {
				return &TaskRequirement{
					TaskId:    record.Id,
					Status:    strings.Join(req.Status, ", "),
					ReqTaskId: req.Task.Id,
				}
			})
			if len(requirements) > 0 {
				if err := tx.Create(&requirements).Error; err != nil {
					return fmt.Errorf("error saving requirements of task %s: %w", record.Id, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

func upsert(tx *gorm.DB, value any) error {
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(value).Error
}

func replaceAssociation[T any](tx *gorm.DB, owner any, name string, values []T) error {
	association := tx.Model(owner).Omit(name + ".*").Association(name)
	if len(values) == 0 {
		return association.Clear()
	}
	return association.Replace(values)
}

func resolveItemTypes(tx *gorm.DB, names []string) (map[string]*ItemType, error) {
	existing := make([]*ItemType, 0)
	if err := tx.Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("error loading item types: %w", err)
	}
	index := make(map[string]*ItemType, len(existing))
	for _, itemType := range existing {
		index[itemType.Name] = itemType
	}
	toCreate, index := utils.ResolveOrCreate(index, names, func(name string) *ItemType {
		return &ItemType{Name: name}
	})
	if len(toCreate) > 0 {
		if err := tx.Create(&toCreate).Error; err != nil {
			return nil, fmt.Errorf("error creating item types: %w", err)
		}
	}
	return index, nil
}

// resolveMaps is keyed by map id. A map row is built from the first stub
// referencing it and is never updated afterwards.
func resolveMaps(tx *gorm.DB, records []*client.TaskRecord) (map[string]*Map, error) {
	stubs := make(map[string]client.MapRecord)
	for _, record := range records {
		for _, objective := range record.Objectives {
			for _, stub := range objective.Maps {
				if _, ok := stubs[stub.Id]; !ok {
					stubs[stub.Id] = stub
				}
			}
		}
	}
	existing := make([]*Map, 0)
	if err := tx.Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("error loading maps: %w", err)
	}
	index := make(map[string]*Map, len(existing))
	for _, m := range existing {
		index[m.Id] = m
	}
	toCreate, index := utils.ResolveOrCreate(index, utils.Keys(stubs), func(id string) *Map {
		stub := stubs[id]
		return &Map{
			Id:             stub.Id,
			Name:           stub.Name,
			NormalizedName: stub.NormalizedName,
			Players:        stub.Players,
			Description:    stub.Description,
			Wiki:           stub.Wiki,
		}
	})
	if len(toCreate) > 0 {
		if err := tx.Create(&toCreate).Error; err != nil {
			return nil, fmt.Errorf("error creating maps: %w", err)
		}
	}
	return index, nil
}

// Objectives are created one by one: the objective row has to exist before
// its map links can be written.
func replaceObjectives(tx *gorm.DB, record *client.TaskRecord, mapIndex map[string]*Map) error {
	err := tx.Exec(
		fmt.Sprintf("DELETE FROM %s WHERE objective_id IN (SELECT id FROM %s WHERE task_id = ?)", table("objective_maps"), table("objectives")),
		record.Id,
	).Error
	if err != nil {
		return err
	}
	if err := tx.Where("task_id = ?", record.Id).Delete(&Objective{}).Error; err != nil {
		return err
	}
	for _, objectiveRecord := range record.Objectives {
		objective := &Objective{
			ExternalId:  objectiveRecord.Id,
			TaskId:      record.Id,
			Type:        objectiveRecord.Type,
			Description: objectiveRecord.Description,
			Maps: utils.Map(objectiveRecord.Maps, func(stub client.MapRecord) *Map {
				return mapIndex[stub.Id]
			}),
		}
		if len(objectiveRecord.Extra) > 0 {
			objective.Payload = datatypes.JSONMap(objectiveRecord.Extra)
		}
		if err := tx.Omit("Maps.*").Create(objective).Error; err != nil {
			return err
		}
	}
	return nil
}
