package controller

import (
	"fmt"
	"tarkovapi/app_error"
	"tarkovapi/auth"
	"tarkovapi/model/restmodel"
	"tarkovapi/repository"
	"tarkovapi/service"

	"github.com/gin-gonic/gin"
)

type IngestionController struct {
	ingestionService *service.IngestionService
}

func NewIngestionController(ingestionService *service.IngestionService) *IngestionController {
	return &IngestionController{
		ingestionService: ingestionService,
	}
}

func setupIngestionController(ingestionService *service.IngestionService, debug bool) []RouteInfo {
	e := NewIngestionController(ingestionService)
	routes := []RouteInfo{
		{Method: "POST", Path: "/ingest/:collection", HandlerFunc: e.ingestHandler(), Authenticated: true, RequiredPermissions: []string{auth.PermissionAdmin}},
	}
	if debug {
		routes = append(routes, RouteInfo{Method: "GET", Path: "/ingestion_log", HandlerFunc: e.getIngestionLogHandler()})
	}
	return routes
}

// @id GetIngestionLog
// @Description Most recent ingestion runs, newest first. Only served outside production.
// @Tags ingestion
// @Produce json
// @Param count query int false "number of runs, default 10"
// @Success 200 {array} restmodel.IngestionRecord
// @Router /ingestion_log [get]
func (e *IngestionController) getIngestionLogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := e.ingestionService.GetRecentRecords(c.Request.Context(), service.ParseRecordCount(c.Query("count")))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, records)
	}
}

// @id Ingest
// @Description Runs one ingestion of a collection now, falling back to the last good payload when the provider is down
// @Tags ingestion
// @Produce json
// @Security BearerAuth
// @Param collection path string true "items or tasks"
// @Success 201 {object} restmodel.IngestionRecord
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /ingest/{collection} [post]
func (e *IngestionController) ingestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		collection, ok := repository.ParseCollection(c.Param("collection"))
		if !ok {
			app_error.Respond(c, fmt.Errorf("%w: %s", app_error.ErrUnknownCollection, c.Param("collection")))
			return
		}
		record, err := e.ingestionService.Ingest(c.Request.Context(), collection)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(201, restmodel.ToIngestionRecordResponse(record))
	}
}
