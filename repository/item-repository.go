package repository

import (
	"context"
	"fmt"
	"strings"
	"tarkovapi/client"
	"tarkovapi/config"
	"tarkovapi/metrics"
	"tarkovapi/utils"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type ItemType struct {
	Id   int    `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"not null;uniqueIndex"`
}

type SellOffer struct {
	Id       int    `gorm:"primaryKey;autoIncrement"`
	ItemId   string `gorm:"not null;index:idx_sell_offer_item_source,priority:1"`
	Source   string `gorm:"not null;index:idx_sell_offer_item_source,priority:2"`
	Price    int    `gorm:"not null"`
	Currency string
	PriceRub *int
}

type Item struct {
	Id                   string       `gorm:"primaryKey"`
	Name                 string       `gorm:"not null;index"`
	ShortName            string       `gorm:"not null"`
	Width                int          `gorm:"not null"`
	Height               int          `gorm:"not null"`
	BasePrice            int          `gorm:"not null"`
	Avg24hPrice          *int         `gorm:"column:avg24h_price"`
	ChangeLast48hPercent *float64     `gorm:"column:change_last48h_percent"`
	Link                 string       `gorm:"not null"`
	Types                []*ItemType  `gorm:"many2many:item_item_types;constraint:OnDelete:CASCADE"`
	SellOffers           []*SellOffer `gorm:"foreignKey:ItemId;constraint:OnDelete:CASCADE"`
}

type ItemSortField string

const (
	SortBestFleaPrice ItemSortField = "fleaMarket"
	SortBasePrice     ItemSortField = "basePrice"
	SortAvg24hPrice   ItemSortField = "avg24hPrice"
	SortChange48h     ItemSortField = "changeLast48hPercent"
	SortName          ItemSortField = "name"
	SortShortName     ItemSortField = "shortName"
	SortWidth         ItemSortField = "width"
	SortHeight        ItemSortField = "height"
)

var itemSortColumns = map[ItemSortField]string{
	SortBasePrice:   "base_price",
	SortAvg24hPrice: "avg24h_price",
	SortChange48h:   "change_last48h_percent",
	SortName:        "name",
	SortShortName:   "short_name",
	SortWidth:       "width",
	SortHeight:      "height",
}

func IsItemSortField(field string) bool {
	if ItemSortField(field) == SortBestFleaPrice {
		return true
	}
	_, ok := itemSortColumns[ItemSortField(field)]
	return ok
}

// ItemQuery holds already defaulted and clamped parameters. An empty Type
// means no type restriction.
type ItemQuery struct {
	Search    string
	SortBy    ItemSortField
	Ascending bool
	Type      string
	Limit     int
	Offset    int
}

type HistoricalPricePoint struct {
	Timestamp            time.Time `json:"timestamp"`
	Origin               string    `json:"origin"`
	Avg24hPrice          *int      `json:"avg24hPrice" gorm:"column:avg24h_price"`
	ChangeLast48hPercent *float64  `json:"changeLast48hPercent" gorm:"column:change_last48h_percent"`
	FleaMarketPrice      *int      `json:"fleaMarketPrice" gorm:"column:flea_market_price"`
}

type ItemRepository struct {
	DB *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{DB: db}
}

func table(name string) string {
	return config.Schema + "." + name
}

func likePattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(search)
	return "%" + escaped + "%"
}

const lookupBatchSize = 1000

// findByIds keeps every statement well below the postgres bind parameter
// limit. Rows come back ordered by id.
func findByIds[T any](db *gorm.DB, ids []string) ([]*T, error) {
	db = db.Session(&gorm.Session{})
	rows := make([]*T, 0, len(ids))
	var err error
	for batch := range utils.BatchIterator(utils.SortedUniques(ids), lookupBatchSize) {
		if err != nil {
			continue
		}
		found := make([]*T, 0, len(batch))
		err = db.Where("id IN ?", batch).Order("id ASC").Find(&found).Error
		rows = append(rows, found...)
	}
	return rows, err
}

func (r *ItemRepository) withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Types", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("SellOffers", func(db *gorm.DB) *gorm.DB { return db.Order("source ASC, id ASC") })
}

func (r *ItemRepository) QueryItems(ctx context.Context, q ItemQuery) ([]*Item, error) {
	timer := prometheus.NewTimer(metrics.StoreQueryDuration.WithLabelValues("QueryItems"))
	defer timer.ObserveDuration()

	direction := "DESC"
	if q.Ascending {
		direction = "ASC"
	}
	query := r.withChildren(r.DB.WithContext(ctx).Model(&Item{}).Select("items.*"))
	if q.Search != "" {
		query = query.Where("items.name ILIKE ?", likePattern(q.Search))
	}
	if q.Type != "" {
		query = query.Where(fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s iit JOIN %s it ON it.id = iit.item_type_id WHERE iit.item_id = items.id AND LOWER(it.name) = LOWER(?))",
			table("item_item_types"), table("item_types"),
		), q.Type)
	}
	if q.SortBy == SortBestFleaPrice {
		flea := r.DB.Table(table("sell_offers")).
			Select("item_id, MAX(price) AS flea_price").
			Where("source = ?", client.FleaMarketSource).
			Group("item_id")
		query = query.
			Joins("JOIN (?) AS flea ON flea.item_id = items.id", flea).
			Order("flea.flea_price " + direction)
	} else {
		column, ok := itemSortColumns[q.SortBy]
		if !ok {
			return nil, fmt.Errorf("unsupported sort field %q", q.SortBy)
		}
		query = query.Order(fmt.Sprintf("items.%s %s NULLS LAST", column, direction))
	}
	items := make([]*Item, 0)
	err := query.
		Order("items.id ASC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("error querying items: %w", err)
	}
	return items, nil
}

// GetItemsByIds omits unknown ids and orders by id.
func (r *ItemRepository) GetItemsByIds(ctx context.Context, ids []string) ([]*Item, error) {
	timer := prometheus.NewTimer(metrics.StoreQueryDuration.WithLabelValues("GetItemsByIds"))
	defer timer.ObserveDuration()
	return findByIds[Item](r.withChildren(r.DB.WithContext(ctx)), ids)
}

func (r *ItemRepository) GetItemHistory(ctx context.Context, itemId string) ([]*HistoricalPricePoint, error) {
	timer := prometheus.NewTimer(metrics.StoreQueryDuration.WithLabelValues("GetItemHistory"))
	defer timer.ObserveDuration()
	points := make([]*HistoricalPricePoint, 0)
	if itemId == "" {
		return points, nil
	}
	err := r.DB.WithContext(ctx).
		Table(table("historical_item_snapshots")+" AS s").
		Select("r.timestamp, r.origin, s.avg24h_price, s.change_last48h_percent, s.flea_market_price").
		Joins("JOIN "+table("ingestion_records")+" AS r ON r.id = s.ingestion_record_id").
		Where("s.item_id = ?", itemId).
		Order("r.timestamp ASC, s.id ASC").
		Scan(&points).Error
	return points, err
}

func (r *ItemRepository) CountItems(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&Item{}).Count(&count).Error
	return count, err
}
