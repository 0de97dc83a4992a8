package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"tarkovapi/auth"
	"tarkovapi/config"
	"tarkovapi/repository"
	"tarkovapi/service"
	"tarkovapi/utils"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Creates or updates the schema without starting the server. With -seed,
// collections that were never ingested are loaded from their fallback files.
// With -token, an admin token for the ingest endpoint is printed instead and
// the database is left alone.
func main() {
	seed := flag.Bool("seed", false, "seed empty collections from the fallback files")
	token := flag.Bool("token", false, "print an admin token signed with JWT_SECRET and exit")
	subject := flag.String("token-subject", "ops", "subject of the printed token")
	ttl := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the printed token")
	flag.Parse()

	cfg := config.Env()
	utils.SetLogLevel(cfg.LogLevel)
	if err := cfg.Validate(config.IsProduction()); err != nil {
		utils.Log.Fatal(err)
	}

	if *token {
		signed, err := issueAdminToken(cfg, *subject, *ttl)
		if err != nil {
			utils.Log.Fatal(err)
		}
		fmt.Println(signed)
		return
	}

	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		utils.Log.Fatal(err)
	}
	defer conn.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), config.GormConfig())
	if err != nil {
		utils.Log.Fatal(err)
	}
	if err := db.Exec(`CREATE SCHEMA IF NOT EXISTS ` + config.Schema).Error; err != nil {
		utils.Log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		utils.Log.Fatal(err)
	}
	utils.Log.Infof("Migrated %d tables in schema %s", len(repository.Models), config.Schema)

	if !*seed {
		return
	}
	ingestion := service.NewIngestionService(nil, repository.NewIngestionRepository(db), nil, map[repository.Collection]string{
		repository.CollectionItems: cfg.ItemsFile,
		repository.CollectionTasks: cfg.TasksFile,
	})
	for _, collection := range repository.Collections {
		record, err := ingestion.SeedIfEmpty(context.Background(), collection)
		if err != nil {
			utils.Log.WithError(err).WithField("collection", collection).Error("seeding failed")
			continue
		}
		if record == nil {
			utils.Log.WithField("collection", collection).Info("already ingested, nothing to seed")
		}
	}
}

func issueAdminToken(cfg *config.Config, subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return auth.CreateToken([]byte(cfg.JWTSecret), subject, []string{auth.PermissionAdmin}, ttl)
}
