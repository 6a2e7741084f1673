package services

import (
	"os"

	"gorm.io/gorm"
)

// SqlService is the storage contract the domain services depend on, satisfied
// by both the sqlite and postgres backends.
type SqlService interface {
	Db() *gorm.DB
	HandleError(err error) error
}

// StorageServiceID picks the storage backend from DB_DRIVER. SQLite is the
// default so local development needs no database setup.
func StorageServiceID() string {
	if os.Getenv("DB_DRIVER") == "postgres" {
		return POSTGRES_SVC
	}
	return SQLITE_SVC
}
