package repository

import (
	"fmt"
	"log"
	"tarkovapi/config"
	"testing"

	"github.com/ory/dockertest/v3"
	"gorm.io/gorm"
)

var db *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}

	// uses pool to try to connect to Docker
	err = pool.Client.Ping()
	if err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	// pulls an image, creates a container based on it and runs it
	resource, err := pool.Run("postgres", "17.2-alpine", []string{"POSTGRES_USER=postgres", "POSTGRES_PASSWORD=postgres", "POSTGRES_DB=postgres"})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}
	resource.Expire(600) // Tell docker to hard kill the container in 10 minutes
	dsn := fmt.Sprintf(
		"host=localhost port=%s user=postgres password=postgres dbname=postgres sslmode=disable",
		resource.GetPort("5432/tcp"))

	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	if err := pool.Retry(func() error {
		var err error
		db, err = config.InitDB(dsn)
		if err != nil {
			return err
		}
		return Migrate(db)
	}); err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Fatalf("Could not purge resource: %s", err)
		}
	}()
	m.Run()
}

func TearDown() {
	for _, name := range []string{
		"objective_maps",
		"objectives",
		"task_requirements",
		"task_batch_snapshots",
		"tasks",
		"maps",
		"item_item_types",
		"sell_offers",
		"item_types",
		"historical_item_snapshots",
		"items",
		"ingestion_records",
	} {
		db.Exec("DELETE FROM " + table(name))
	}
}
