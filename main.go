package main

import (
	"context"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"tarkovapi/client"
	"tarkovapi/config"
	"tarkovapi/controller"
	"tarkovapi/cron"
	"tarkovapi/docs"
	"tarkovapi/repository"
	"tarkovapi/service"
	"tarkovapi/utils"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

const upstreamRetries = 3

// @title           Tarkov Data API
// @version         1.0
// @description     Cached, queryable snapshot of Escape from Tarkov items and tasks.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	t := time.Now()

	cfg := config.Env()
	utils.SetLogLevel(cfg.LogLevel)
	if config.IsProduction() {
		utils.UseJSONFormatter()
	}
	if err := cfg.Validate(config.IsProduction()); err != nil {
		utils.Log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := config.InitDB(cfg.DSN())
	if err != nil {
		utils.Log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		utils.Log.Fatalf("Failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		utils.Log.Fatalf("Failed to access database handle: %v", err)
	}

	cacheStore, err := config.NewCacheStore(cfg)
	if err != nil {
		utils.Log.Fatalf("Failed to set up response cache: %v", err)
	}

	var publisher service.IngestionPublisher
	writer, err := config.GetIngestionWriter(cfg)
	if err != nil {
		utils.Log.WithError(err).Warn("kafka unavailable, ingestion runs will not be published")
	} else if writer != nil {
		defer utils.Closer(writer)()
		publisher = service.NewKafkaPublisher(writer)
	}

	tarkovClient := client.NewTarkovClient(cfg.UpstreamURL, cfg.UpstreamTimeout, upstreamRetries, client.DefaultBreakerSettings)
	ingestionService := service.NewIngestionService(
		tarkovClient,
		repository.NewIngestionRepository(db),
		publisher,
		map[repository.Collection]string{
			repository.CollectionItems: cfg.ItemsFile,
			repository.CollectionTasks: cfg.TasksFile,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, collection := range repository.Collections {
		if _, err := ingestionService.SeedIfEmpty(ctx, collection); err != nil {
			utils.Log.WithError(err).WithField("collection", collection).Warn("could not seed from the fallback file")
		}
	}

	var schedule service.Schedule
	if cfg.SchedulingEnabled {
		scheduler := cron.NewIngestionScheduler(ingestionService, map[repository.Collection]time.Duration{
			repository.CollectionItems: cfg.ItemsInterval,
			repository.CollectionTasks: cfg.TasksInterval,
		})
		scheduler.Start(ctx)
		defer scheduler.Stop()
		schedule = scheduler
	}

	cache := service.NewResponseCache(cacheStore, schedule, cfg.CacheFallbackTTL)
	services := &controller.Services{
		Items:     service.NewItemService(repository.NewItemRepository(db), cache, schedule, cfg.MaxPageLimit),
		Tasks:     service.NewTaskService(repository.NewTaskRepository(db), cache, schedule, cfg.MaxPageLimit),
		Ingestion: ingestionService,
		Health:    service.NewHealthService(sqlDB),
		JWTSecret: []byte(cfg.JWTSecret),
		Debug:     config.IsDevelopment(),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Log.Fatalf("Failed to set trusted proxies: %v", err)
	}
	addLogger(r)
	addMetrics(r)
	addDocs(r)
	setCors(r)
	controller.SetRoutes(r, services)
	utils.Log.Infof("Server started in %s", time.Since(t))
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.Log.Errorf("Failed to start server: %v", err)
	}
}

func addLogger(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/metrics", "/api/health"},
	}))
}

func addMetrics(r *gin.Engine) {
	p := ginprometheus.NewPrometheus("gin")
	taskRe := regexp.MustCompile(`(task|task_prerequisites|ingest)/[^/]+$`)
	p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
		url := strings.Split(c.Request.URL.String(), "?")[0]
		url = taskRe.ReplaceAllString(url, "$1/?")
		return strings.TrimPrefix(url, "/api")
	}
	p.MetricsPath = "/api/metrics"
	p.Use(r)
}

func addDocs(r *gin.Engine) {
	docs.SwaggerInfo.BasePath = "/api"
	r.GET("/api/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// setCors allows reads from anywhere. Ingestion is only triggered by
// operators, so other methods are limited to local origins.
func setCors(r *gin.Engine) {
	corsConfigGetOptions := cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	corsConfigOtherMethods := cors.Config{
		AllowOrigins: []string{
			"http://localhost",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	r.Use(func(c *gin.Context) {
		if c.Request.Method == "OPTIONS" {
			requestedMethod := c.GetHeader("Access-Control-Request-Method")
			if requestedMethod == "GET" || requestedMethod == "OPTIONS" {
				cors.New(corsConfigGetOptions)(c)
			} else {
				cors.New(corsConfigOtherMethods)(c)
			}
			c.AbortWithStatus(204)
			return
		}

		if c.Request.Method == "GET" {
			cors.New(corsConfigGetOptions)(c)
		} else {
			cors.New(corsConfigOtherMethods)(c)
		}
	})
}
