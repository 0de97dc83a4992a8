package repository

import "gorm.io/gorm"

// SharedDB hands the container database to the external test package.
func SharedDB() *gorm.DB {
	return db
}
