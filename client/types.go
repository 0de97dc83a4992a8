package client

import (
	"encoding/json"
)

const FleaMarketSource = "fleaMarket"

type SellOfferRecord struct {
	Price    int    `json:"price"`
	Source   string `json:"source"`
	Currency string `json:"currency,omitempty"`
	PriceRUB *int   `json:"priceRUB,omitempty"`
}

type ItemRecord struct {
	Id                   string            `json:"id"`
	Name                 string            `json:"name"`
	ShortName            string            `json:"shortName"`
	Types                []string          `json:"types"`
	Avg24hPrice          *int              `json:"avg24hPrice,omitempty"`
	BasePrice            int               `json:"basePrice"`
	Width                int               `json:"width"`
	Height               int               `json:"height"`
	ChangeLast48hPercent *float64          `json:"changeLast48hPercent,omitempty"`
	Link                 string            `json:"link"`
	SellFor              []SellOfferRecord `json:"sellFor"`
}

// FleaMarketPrice returns the highest flea market offer, nil when the item
// does not trade there.
func (r *ItemRecord) FleaMarketPrice() *int {
	var best *int
	for i := range r.SellFor {
		offer := r.SellFor[i]
		if offer.Source != FleaMarketSource {
			continue
		}
		if best == nil || offer.Price > *best {
			price := offer.Price
			best = &price
		}
	}
	return best
}

type MapRecord struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	NormalizedName string `json:"normalizedName"`
	Players        string `json:"players"`
	Description    string `json:"description"`
	Wiki           string `json:"wiki"`
}

// ObjectiveRecord keeps every field the provider sends. Only id, type,
// description and maps are structured, the kind specific rest lands in Extra.
type ObjectiveRecord struct {
	Id          string         `json:"id"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Maps        []MapRecord    `json:"maps"`
	Extra       map[string]any `json:"-"`
}

func (o *ObjectiveRecord) UnmarshalJSON(data []byte) error {
	type plain ObjectiveRecord
	var structured plain
	if err := json.Unmarshal(data, &structured); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, key := range []string{"id", "type", "description", "maps"} {
		delete(all, key)
	}
	*o = ObjectiveRecord(structured)
	if len(all) > 0 {
		o.Extra = all
	}
	return nil
}

type TaskRef struct {
	Id string `json:"id"`
}

type TaskRequirementRecord struct {
	Status []string `json:"status"`
	Task   TaskRef  `json:"task"`
}

type TraderRecord struct {
	Name string `json:"name"`
}

type TaskRecord struct {
	Id                  string                  `json:"id"`
	Name                string                  `json:"name"`
	NormalizedName      string                  `json:"normalizedName"`
	Experience          int                     `json:"experience"`
	MinPlayerLevel      int                     `json:"minPlayerLevel"`
	Trader              TraderRecord            `json:"trader"`
	FactionName         string                  `json:"factionName"`
	KappaRequired       bool                    `json:"kappaRequired"`
	LightkeeperRequired bool                    `json:"lightkeeperRequired"`
	WikiLink            string                  `json:"wikiLink"`
	Objectives          []ObjectiveRecord       `json:"objectives"`
	TaskRequirements    []TaskRequirementRecord `json:"taskRequirements"`
}
