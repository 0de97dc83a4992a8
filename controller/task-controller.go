package controller

import (
	"tarkovapi/app_error"
	"tarkovapi/service"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	taskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{
		taskService: taskService,
	}
}

func setupTaskController(taskService *service.TaskService) []RouteInfo {
	e := NewTaskController(taskService)
	return []RouteInfo{
		{Method: "GET", Path: "/tasks", HandlerFunc: e.getTasksHandler()},
		{Method: "GET", Path: "/task_ids", HandlerFunc: e.getTasksByIdsHandler()},
		{Method: "GET", Path: "/task/:id", HandlerFunc: e.getTaskHandler()},
		{Method: "GET", Path: "/task_prerequisites/:id", HandlerFunc: e.getPrerequisitesHandler()},
		{Method: "GET", Path: "/adj_list", HandlerFunc: e.getAdjacencyListHandler()},
		{Method: "GET", Path: "/task_stats", HandlerFunc: e.getTaskStatsHandler()},
	}
}

// @id GetTasks
// @Description Filtered and paginated tasks ordered by id. Unusable parameters fall back to their defaults.
// @Tags tasks
// @Produce json
// @Param search query string false "case-insensitive substring of the task name"
// @Param isKappa query bool false "only tasks required for Kappa"
// @Param isLightKeeper query bool false "only tasks required for Lightkeeper"
// @Param playerLvl query int false "highest minimum player level, default 99"
// @Param objType query string false "objective type, 'any' (default) for all"
// @Param trader query string false "trader name, 'any' (default) for all"
// @Param ids query []string false "task ids to leave out" collectionFormat(multi)
// @Param limit query int false "page size, default 30, clamped to the configured maximum"
// @Param offset query int false "page offset"
// @Success 200 {array} restmodel.Task
// @Router /tasks [get]
func (e *TaskController) getTasksHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		params := service.ParseTaskQueryParams(c.Request.URL.Query(), e.taskService.MaxLimit())
		payload, err := e.taskService.QueryTasks(c.Request.Context(), params)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		writeJSON(c, payload)
	}
}

// @id GetTasksByIds
// @Description Tasks with the given ids ordered by id. Unknown ids are omitted.
// @Tags tasks
// @Produce json
// @Param ids query []string false "task ids" collectionFormat(multi)
// @Success 200 {array} restmodel.Task
// @Router /task_ids [get]
func (e *TaskController) getTasksByIdsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := e.taskService.GetTasksByIds(c.Request.Context(), c.QueryArray("ids"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		writeJSON(c, payload)
	}
}

// @id GetTask
// @Tags tasks
// @Produce json
// @Param id path string true "task id"
// @Success 200 {object} restmodel.Task
// @Failure 404 {object} map[string]string
// @Router /task/{id} [get]
func (e *TaskController) getTaskHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := e.taskService.GetTask(c.Request.Context(), c.Param("id"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		writeJSON(c, payload)
	}
}

// @id GetTaskPrerequisites
// @Description Ids of every task that has to be completed before the given one, following requirements transitively
// @Tags tasks
// @Produce json
// @Param id path string true "task id"
// @Success 200 {array} string
// @Router /task_prerequisites/{id} [get]
func (e *TaskController) getPrerequisitesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := e.taskService.GetPrerequisites(c.Request.Context(), c.Param("id"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		writeJSON(c, payload)
	}
}

// @id GetAdjacencyList
// @Description Prerequisite and unlock edges of every task, keyed by task id
// @Tags tasks
// @Produce json
// @Success 200 {object} map[string][]service.Edge
// @Router /adj_list [get]
func (e *TaskController) getAdjacencyListHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := e.taskService.GetAdjacencyList(c.Request.Context())
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		writeJSON(c, payload)
	}
}

// @id GetTaskStats
// @Tags tasks
// @Produce json
// @Success 200 {object} restmodel.TaskStats
// @Router /task_stats [get]
func (e *TaskController) getTaskStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := e.taskService.GetTaskStats(c.Request.Context())
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, stats)
	}
}
