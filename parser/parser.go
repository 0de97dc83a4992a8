package parser

import (
	"encoding/json"
	"fmt"
	"tarkovapi/app_error"

	"github.com/tidwall/gjson"
)

type fieldChecker func(value gjson.Result) bool

type fieldCheck struct {
	path  string
	check fieldChecker
}

func nonEmptyString(value gjson.Result) bool {
	return value.Type == gjson.String && value.Str != ""
}

func optionalString(value gjson.Result) bool {
	return !value.Exists() || value.Type == gjson.Null || value.Type == gjson.String
}

func nonNegativeNumber(value gjson.Result) bool {
	return value.Type == gjson.Number && value.Num >= 0
}

func number(value gjson.Result) bool {
	return value.Type == gjson.Number
}

func nullableNumber(value gjson.Result) bool {
	return !value.Exists() || value.Type == gjson.Null || value.Type == gjson.Number
}

func optionalBool(value gjson.Result) bool {
	return !value.Exists() || value.Type == gjson.Null || value.IsBool()
}

func array(value gjson.Result) bool {
	return value.IsArray()
}

func optionalArray(value gjson.Result) bool {
	return !value.Exists() || value.Type == gjson.Null || value.IsArray()
}

func stringArray(value gjson.Result) bool {
	if !value.IsArray() {
		return false
	}
	for _, element := range value.Array() {
		if element.Type != gjson.String {
			return false
		}
	}
	return true
}

// ExtractCollection returns the raw `data.<collection>` array of a provider
// or fallback payload.
func ExtractCollection(payload []byte, collection string) (json.RawMessage, error) {
	if !gjson.ValidBytes(payload) {
		return nil, app_error.Malformed(collection, -1, "payload")
	}
	records := gjson.GetBytes(payload, "data."+collection)
	if !records.IsArray() {
		return nil, app_error.Malformed(collection, -1, "data."+collection)
	}
	return json.RawMessage(records.Raw), nil
}

func checkAll(collection string, index int, prefix string, record gjson.Result, checks []fieldCheck) error {
	for _, c := range checks {
		if !c.check(record.Get(c.path)) {
			return app_error.Malformed(collection, index, prefix+c.path)
		}
	}
	return nil
}

func checkEach(collection string, index int, field string, record gjson.Result, checks []fieldCheck) error {
	for i, element := range record.Get(field).Array() {
		if err := checkAll(collection, index, fmt.Sprintf("%s.%d.", field, i), element, checks); err != nil {
			return err
		}
	}
	return nil
}

// validate walks every record with the given per-record check and rejects
// duplicate ids within one batch.
func validate(collection string, raw json.RawMessage, check func(index int, record gjson.Result) error) error {
	seen := make(map[string]int)
	var err error
	gjson.ParseBytes(raw).ForEach(func(key, record gjson.Result) bool {
		index := int(key.Int())
		if err = check(index, record); err != nil {
			return false
		}
		id := record.Get("id").Str
		if _, ok := seen[id]; ok {
			err = app_error.Malformed(collection, index, "id")
			return false
		}
		seen[id] = index
		return true
	})
	return err
}

func decode[T any](collection string, raw json.RawMessage) ([]*T, error) {
	records := make([]*T, 0)
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", app_error.ErrMalformedRecord, collection, err)
	}
	return records, nil
}
