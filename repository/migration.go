package repository

import (
	"fmt"
	"tarkovapi/utils"

	"gorm.io/gorm"
)

var Models = []any{
	&IngestionRecord{},
	&ItemType{},
	&Item{},
	&SellOffer{},
	&HistoricalItemSnapshot{},
	&Map{},
	&Task{},
	&Objective{},
	&TaskRequirement{},
	&TaskBatchSnapshot{},
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("error migrating models: %w", err)
	}
	// trigram indexes back ILIKE '%search%' and need pg_trgm, so they are best effort
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error; err != nil {
		utils.Log.WithError(err).Warn("pg_trgm unavailable, skipping name search indexes")
		return nil
	}
	for _, name := range []string{"items", "tasks"} {
		query := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_name_trgm ON %s USING gin (name gin_trgm_ops)`, name, table(name))
		if err := db.Exec(query).Error; err != nil {
			utils.Log.WithError(err).WithField("table", name).Warn("skipping name search index")
		}
	}
	return nil
}
