package controller

import (
	"tarkovapi/app_error"
	"tarkovapi/service"

	"github.com/gin-gonic/gin"
)

type ItemController struct {
	itemService *service.ItemService
}

func NewItemController(itemService *service.ItemService) *ItemController {
	return &ItemController{
		itemService: itemService,
	}
}

func setupItemController(itemService *service.ItemService) []RouteInfo {
	e := NewItemController(itemService)
	return []RouteInfo{
		{Method: "GET", Path: "/items", HandlerFunc: e.getItemsHandler()},
		{Method: "GET", Path: "/item_ids", HandlerFunc: e.getItemsByIdsHandler()},
		{Method: "GET", Path: "/item_history", HandlerFunc: e.getItemHistoryHandler()},
		{Method: "GET", Path: "/item_stats", HandlerFunc: e.getItemStatsHandler()},
	}
}

// @id GetItems
// @Description Filtered, sorted and paginated items. Unusable parameters fall back to their defaults.
// @Tags items
// @Produce json
// @Param search query string false "case-insensitive substring of the item name"
// @Param sortBy query string false "fleaMarket (default), basePrice, avg24hPrice, changeLast48hPercent, name, shortName, width or height"
// @Param asc query string false "'-' (default) sorts descending, an empty value ascending"
// @Param type query string false "item type tag, 'any' (default) for all"
// @Param limit query int false "page size, default 30, clamped to the configured maximum"
// @Param offset query int false "page offset"
// @Success 200 {array} restmodel.Item
// @Router /items [get]
func (e *ItemController) getItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		params := service.ParseItemQueryParams(c.Request.URL.Query(), e.itemService.MaxLimit())
		payload, err := e.itemService.QueryItems(c.Request.Context(), params)
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		writeJSON(c, payload)
	}
}

// @id GetItemsByIds
// @Description Items with the given ids ordered by id. Unknown ids are omitted.
// @Tags items
// @Produce json
// @Param ids query []string false "item ids" collectionFormat(multi)
// @Success 200 {array} restmodel.Item
// @Router /item_ids [get]
func (e *ItemController) getItemsByIdsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := e.itemService.GetItemsByIds(c.Request.Context(), c.QueryArray("ids"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		writeJSON(c, payload)
	}
}

// @id GetItemHistory
// @Description Price snapshots of one item in ingestion order. Empty for unknown or missing ids.
// @Tags items
// @Produce json
// @Param item_id query string false "item id"
// @Success 200 {array} restmodel.HistoricalPricePoint
// @Router /item_history [get]
func (e *ItemController) getItemHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := e.itemService.GetItemHistory(c.Request.Context(), c.Query("item_id"))
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		writeJSON(c, payload)
	}
}

// @id GetItemStats
// @Description Number of stored items and seconds until the next item ingestion
// @Tags items
// @Produce json
// @Success 200 {object} restmodel.ItemStats
// @Router /item_stats [get]
func (e *ItemController) getItemStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := e.itemService.GetItemStats(c.Request.Context())
		if err != nil {
			app_error.Respond(c, err)
			return
		}
		c.JSON(200, stats)
	}
}
