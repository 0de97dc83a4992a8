package controller

import (
	"tarkovapi/app_error"
	"tarkovapi/service"

	"github.com/gin-gonic/gin"
)

func setupHealthController(healthService *service.HealthService) []RouteInfo {
	return []RouteInfo{
		{Method: "GET", Path: "/health", HandlerFunc: healthHandler(healthService)},
	}
}

// @id GetHealth
// @Tags health
// @Produce json
// @Success 200 {object} restmodel.Health
// @Failure 503 {object} restmodel.Health
// @Router /health [get]
func healthHandler(healthService *service.HealthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		health, err := healthService.Check(c.Request.Context())
		if err != nil {
			c.JSON(app_error.HTTPStatus(err), health)
			return
		}
		c.JSON(200, health)
	}
}
