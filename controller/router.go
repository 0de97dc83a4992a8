package controller

import (
	"strings"
	"tarkovapi/auth"
	"tarkovapi/service"

	"github.com/gin-gonic/gin"
)

type RouteInfo struct {
	Method              string
	Path                string
	HandlerFunc         gin.HandlerFunc
	Authenticated       bool
	RequiredPermissions []string
}

// Services is everything the handlers need. Nothing is looked up globally.
type Services struct {
	Items     *service.ItemService
	Tasks     *service.TaskService
	Ingestion *service.IngestionService
	Health    *service.HealthService
	JWTSecret []byte
	// Debug exposes the ingestion log.
	Debug bool
}

func SetRoutes(r *gin.Engine, services *Services) {
	routes := make([]RouteInfo, 0)
	routes = append(routes, setupItemController(services.Items)...)
	routes = append(routes, setupTaskController(services.Tasks)...)
	routes = append(routes, setupIngestionController(services.Ingestion, services.Debug)...)
	routes = append(routes, setupHealthController(services.Health)...)
	group := r.Group("/api")
	for _, route := range routes {
		handlerfuncs := make([]gin.HandlerFunc, 0)
		if route.Authenticated {
			handlerfuncs = append(handlerfuncs, AuthMiddleware(services.JWTSecret, route.RequiredPermissions))
		}
		handlerfuncs = append(handlerfuncs, route.HandlerFunc)
		group.Handle(route.Method, route.Path, handlerfuncs...)
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if cookie, err := c.Cookie("auth"); err == nil {
		return cookie
	}
	return ""
}

func AuthMiddleware(secret []byte, permissions []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Unauthenticated"})
			return
		}
		claims, err := auth.ParseToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "Unauthenticated"})
			return
		}
		for _, permission := range permissions {
			if !claims.HasPermission(permission) {
				c.AbortWithStatusJSON(403, gin.H{"error": "Unauthorized"})
				return
			}
		}
		c.Next()
	}
}

func writeJSON(c *gin.Context, payload []byte) {
	c.Data(200, "application/json; charset=utf-8", payload)
}
