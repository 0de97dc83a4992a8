package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"tarkovapi/repository"
)

type EdgeKind string

const (
	EdgePrerequisite EdgeKind = "prerequisite"
	EdgeUnlocks      EdgeKind = "unlocks"
)

// Edge is encoded as a [taskId, kind] pair.
type Edge struct {
	TaskId string
	Kind   EdgeKind
}

func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.TaskId, string(e.Kind)})
}

func (e *Edge) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("edge must be a [taskId, kind] pair: %w", err)
	}
	e.TaskId, e.Kind = pair[0], EdgeKind(pair[1])
	return nil
}

// AdjacencyList indexes every prerequisite edge from both ends: the dependent
// task lists its prerequisite, the prerequisite lists the task it unlocks.
type AdjacencyList map[string][]Edge

func BuildAdjacencyList(requirements []*repository.TaskRequirement) AdjacencyList {
	adj := make(AdjacencyList)
	seen := make(map[[2]string]bool)
	for _, requirement := range requirements {
		edge := [2]string{requirement.TaskId, requirement.ReqTaskId}
		if seen[edge] {
			continue
		}
		seen[edge] = true
		adj[requirement.TaskId] = append(adj[requirement.TaskId], Edge{TaskId: requirement.ReqTaskId, Kind: EdgePrerequisite})
		adj[requirement.ReqTaskId] = append(adj[requirement.ReqTaskId], Edge{TaskId: requirement.TaskId, Kind: EdgeUnlocks})
	}
	return adj
}

func (adj AdjacencyList) Prerequisites(taskId string) []string {
	out := make([]string, 0)
	for _, edge := range adj[taskId] {
		if edge.Kind == EdgePrerequisite {
			out = append(out, edge.TaskId)
		}
	}
	return out
}

// PrerequisiteClosure returns every task reachable from root over
// prerequisite edges, sorted by id. Cycles are tolerated and root itself is
// never part of the result.
func PrerequisiteClosure(adj AdjacencyList, root string) []string {
	visited := map[string]bool{root: true}
	stack := []string{root}
	closure := make([]string, 0)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adj.Prerequisites(current) {
			if visited[next] {
				continue
			}
			visited[next] = true
			closure = append(closure, next)
			stack = append(stack, next)
		}
	}
	sort.Strings(closure)
	return closure
}
