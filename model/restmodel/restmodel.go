package restmodel

import (
	"strings"
	"tarkovapi/client"
	"tarkovapi/repository"
	"tarkovapi/utils"
	"time"
)

type SellOffer struct {
	Source   string `json:"source" binding:"required"`
	Price    int    `json:"price" binding:"required"`
	Currency string `json:"currency,omitempty"`
	PriceRUB *int   `json:"priceRUB,omitempty"`
}

type Item struct {
	Id                   string      `json:"id" binding:"required"`
	Name                 string      `json:"name" binding:"required"`
	ShortName            string      `json:"shortName" binding:"required"`
	Types                []string    `json:"types" binding:"required"`
	BasePrice            int         `json:"basePrice" binding:"required"`
	Avg24hPrice          *int        `json:"avg24hPrice"`
	ChangeLast48hPercent *float64    `json:"changeLast48hPercent"`
	FleaMarketPrice      *int        `json:"fleaMarket"`
	Width                int         `json:"width" binding:"required"`
	Height               int         `json:"height" binding:"required"`
	Link                 string      `json:"link"`
	SellFor              []SellOffer `json:"sellFor" binding:"required"`
}

type HistoricalPricePoint = repository.HistoricalPricePoint

type Map struct {
	Id             string `json:"id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	NormalizedName string `json:"normalizedName"`
	Players        string `json:"players"`
	Description    string `json:"description"`
	Wiki           string `json:"wiki"`
}

type Objective struct {
	Id          string         `json:"id"`
	Type        string         `json:"type" binding:"required"`
	Description string         `json:"description"`
	Maps        []Map          `json:"maps" binding:"required"`
	Payload     map[string]any `json:"payload,omitempty"`
}

type TaskRequirement struct {
	TaskId string   `json:"taskId" binding:"required"`
	Status []string `json:"status" binding:"required"`
}

type Task struct {
	Id                  string            `json:"id" binding:"required"`
	Name                string            `json:"name" binding:"required"`
	NormalizedName      string            `json:"normalizedName"`
	Experience          int               `json:"experience"`
	MinPlayerLevel      int               `json:"minPlayerLevel"`
	Trader              string            `json:"trader" binding:"required"`
	FactionName         string            `json:"factionName"`
	KappaRequired       bool              `json:"kappaRequired"`
	LightkeeperRequired bool              `json:"lightkeeperRequired"`
	Wiki                string            `json:"wikiLink"`
	Objectives          []Objective       `json:"objectives" binding:"required"`
	Requirements        []TaskRequirement `json:"taskRequirements" binding:"required"`
}

type ItemStats struct {
	ItemsCount               int64 `json:"itemsCount"`
	TimeTillItemsRefreshSecs int64 `json:"timeTillItemsRefreshSecs"`
}

type TaskStats struct {
	TasksCount               int64 `json:"tasksCount"`
	KappaRequiredCount       int64 `json:"kappaRequiredCount"`
	LightkeeperRequiredCount int64 `json:"lightkeeperRequiredCount"`
	TimeTillTasksRefreshSecs int64 `json:"timeTillTasksRefreshSecs"`
}

type IngestionRecord struct {
	Id          int       `json:"id"`
	Collection  string    `json:"collection"`
	Origin      string    `json:"origin"`
	Timestamp   time.Time `json:"timestamp"`
	EntityCount int       `json:"entityCount"`
}

type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func toSellOfferResponse(offer *repository.SellOffer) SellOffer {
	return SellOffer{
		Source:   offer.Source,
		Price:    offer.Price,
		Currency: offer.Currency,
		PriceRUB: offer.PriceRub,
	}
}

// fleaMarketPrice mirrors the derived sort value: the highest flea offer.
func fleaMarketPrice(offers []*repository.SellOffer) *int {
	var best *int
	flea := utils.Filter(offers, func(offer *repository.SellOffer) bool { return offer.Source == client.FleaMarketSource })
	for _, offer := range flea {
		if best == nil || offer.Price > *best {
			price := offer.Price
			best = &price
		}
	}
	return best
}

func ToItemResponse(item *repository.Item) *Item {
	return &Item{
		Id:        item.Id,
		Name:      item.Name,
		ShortName: item.ShortName,
		Types: utils.Map(item.Types, func(t *repository.ItemType) string {
			return t.Name
		}),
		BasePrice:            item.BasePrice,
		Avg24hPrice:          item.Avg24hPrice,
		ChangeLast48hPercent: item.ChangeLast48hPercent,
		FleaMarketPrice:      fleaMarketPrice(item.SellOffers),
		Width:                item.Width,
		Height:               item.Height,
		Link:                 item.Link,
		SellFor:              utils.Map(item.SellOffers, toSellOfferResponse),
	}
}

func toMapResponse(m *repository.Map) Map {
	return Map{
		Id:             m.Id,
		Name:           m.Name,
		NormalizedName: m.NormalizedName,
		Players:        m.Players,
		Description:    m.Description,
		Wiki:           m.Wiki,
	}
}

func toObjectiveResponse(objective *repository.Objective) Objective {
	return Objective{
		Id:          objective.ExternalId,
		Type:        objective.Type,
		Description: objective.Description,
		Maps:        utils.Map(objective.Maps, toMapResponse),
		Payload:     objective.Payload,
	}
}

func toRequirementResponse(requirement *repository.TaskRequirement) TaskRequirement {
	status := make([]string, 0)
	for _, s := range strings.Split(requirement.Status, ",") {
		if s = strings.TrimSpace(s); s != "" {
			status = append(status, s)
		}
	}
	return TaskRequirement{TaskId: requirement.ReqTaskId, Status: status}
}

func ToTaskResponse(task *repository.Task) *Task {
	return &Task{
		Id:                  task.Id,
		Name:                task.Name,
		NormalizedName:      task.NormalizedName,
		Experience:          task.Experience,
		MinPlayerLevel:      task.MinPlayerLevel,
		Trader:              task.Trader,
		FactionName:         task.FactionName,
		KappaRequired:       task.KappaRequired,
		LightkeeperRequired: task.LightkeeperRequired,
		Wiki:                task.Wiki,
		Objectives:          utils.Map(task.Objectives, toObjectiveResponse),
		Requirements:        utils.Map(task.Requirements, toRequirementResponse),
	}
}

func ToIngestionRecordResponse(record *repository.IngestionRecord) *IngestionRecord {
	return &IngestionRecord{
		Id:          record.Id,
		Collection:  string(record.Source),
		Origin:      string(record.Origin),
		Timestamp:   record.Timestamp,
		EntityCount: record.EntityCount,
	}
}
