package repository_test

import (
	"context"
	"sort"
	"tarkovapi/client"
	"tarkovapi/repository"
	"tarkovapi/service"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainTask(id string, requires ...string) *client.TaskRecord {
	record := &client.TaskRecord{
		Id:             id,
		Name:           id,
		NormalizedName: id,
		MinPlayerLevel: 1,
		Trader:         client.TraderRecord{Name: "Mechanic"},
	}
	for _, req := range requires {
		record.TaskRequirements = append(record.TaskRequirements, client.TaskRequirementRecord{
			Status: []string{"complete"},
			Task:   client.TaskRef{Id: req},
		})
	}
	return record
}

func TestStoredRequirementsAgreeWithAdjacencyList(t *testing.T) {
	defer repository.TearDown()
	ctx := context.Background()
	db := repository.SharedDB()
	chain := []*client.TaskRecord{
		chainTask("intro"),
		chainTask("gunsmith-1", "intro"),
		chainTask("shooter-1", "intro"),
		chainTask("gunsmith-2", "gunsmith-1"),
		chainTask("shooter-2", "shooter-1", "gunsmith-1"),
		chainTask("collector", "gunsmith-2", "shooter-2"),
	}
	_, err := repository.NewIngestionRepository(db).ReconcileTasks(ctx, repository.OriginAPI, chain, nil)
	require.NoError(t, err)

	tasks := repository.NewTaskRepository(db)
	requirements, err := tasks.GetAllRequirements(ctx)
	require.NoError(t, err)
	adj := service.BuildAdjacencyList(requirements)

	for _, record := range chain {
		task, err := tasks.GetTaskById(ctx, record.Id)
		require.NoError(t, err)
		own := make([]string, 0)
		for _, requirement := range task.Requirements {
			own = append(own, requirement.ReqTaskId)
			assert.Contains(t, adj[requirement.ReqTaskId], service.Edge{TaskId: task.Id, Kind: service.EdgeUnlocks})
		}
		edges := adj.Prerequisites(task.Id)
		sort.Strings(own)
		sort.Strings(edges)
		assert.Equal(t, own, edges, "task %s", task.Id)
	}
	assert.Equal(t,
		[]string{"gunsmith-1", "gunsmith-2", "intro", "shooter-1", "shooter-2"},
		service.PrerequisiteClosure(adj, "collector"))
}
