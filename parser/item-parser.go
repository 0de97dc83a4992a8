package parser

import (
	"encoding/json"
	"tarkovapi/client"

	"github.com/tidwall/gjson"
)

const itemsCollection = "items"

var itemChecks = []fieldCheck{
	{"id", nonEmptyString},
	{"name", nonEmptyString},
	{"shortName", optionalString},
	{"types", stringArray},
	{"basePrice", nonNegativeNumber},
	{"width", nonNegativeNumber},
	{"height", nonNegativeNumber},
	{"avg24hPrice", nullableNumber},
	{"changeLast48hPercent", nullableNumber},
	{"link", optionalString},
	{"sellFor", array},
}

var sellOfferChecks = []fieldCheck{
	{"source", nonEmptyString},
	{"price", nonNegativeNumber},
	{"currency", optionalString},
	{"priceRUB", nullableNumber},
}

func validateItem(index int, record gjson.Result) error {
	if err := checkAll(itemsCollection, index, "", record, itemChecks); err != nil {
		return err
	}
	return checkEach(itemsCollection, index, "sellFor", record, sellOfferChecks)
}

// ParseItems validates every record of a raw `data.items` array before
// decoding it. The first malformed record fails the whole batch.
func ParseItems(raw json.RawMessage) ([]*client.ItemRecord, error) {
	if err := validate(itemsCollection, raw, validateItem); err != nil {
		return nil, err
	}
	return decode[client.ItemRecord](itemsCollection, raw)
}
