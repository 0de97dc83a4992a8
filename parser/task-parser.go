package parser

import (
	"encoding/json"
	"fmt"
	"tarkovapi/client"

	"github.com/tidwall/gjson"
)

const tasksCollection = "tasks"

var taskChecks = []fieldCheck{
	{"id", nonEmptyString},
	{"name", nonEmptyString},
	{"normalizedName", optionalString},
	{"experience", number},
	{"minPlayerLevel", nonNegativeNumber},
	{"trader.name", nonEmptyString},
	{"factionName", optionalString},
	{"kappaRequired", optionalBool},
	{"lightkeeperRequired", optionalBool},
	{"wikiLink", optionalString},
	{"objectives", array},
	{"taskRequirements", array},
}

var objectiveChecks = []fieldCheck{
	{"type", nonEmptyString},
	{"description", optionalString},
	{"maps", optionalArray},
}

var mapChecks = []fieldCheck{
	{"id", nonEmptyString},
	{"name", nonEmptyString},
}

var requirementChecks = []fieldCheck{
	{"task.id", nonEmptyString},
	{"status", stringArray},
}

func validateTask(index int, record gjson.Result) error {
	if err := checkAll(tasksCollection, index, "", record, taskChecks); err != nil {
		return err
	}
	if err := checkEach(tasksCollection, index, "objectives", record, objectiveChecks); err != nil {
		return err
	}
	for i := range record.Get("objectives").Array() {
		field := fmt.Sprintf("objectives.%d.maps", i)
		if err := checkEach(tasksCollection, index, field, record, mapChecks); err != nil {
			return err
		}
	}
	return checkEach(tasksCollection, index, "taskRequirements", record, requirementChecks)
}

// ParseTasks validates a raw `data.tasks` array and decodes it.
func ParseTasks(raw json.RawMessage) ([]*client.TaskRecord, error) {
	if err := validate(tasksCollection, raw, validateTask); err != nil {
		return nil, err
	}
	return decode[client.TaskRecord](tasksCollection, raw)
}
