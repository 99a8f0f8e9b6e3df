package db

import (
	"fmt"
	"log"
	"sync"

	"github.com/Ryan-Shaik/TechWave/src/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	db *gorm.DB
	mu sync.Mutex
)

// Open connects to Postgres with the pool sizes used by the service.
func Open(dsn string) (*gorm.DB, error) {
	_db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	sqlDB, err := _db.DB()
	if err != nil {
		return nil, fmt.Errorf("establishing connection to database: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	return _db, nil
}

// GetDb returns the shared connection, opening it from the configured DSN on
// first use. A failed attempt is not cached.
func GetDb() (*gorm.DB, error) {
	mu.Lock()
	defer mu.Unlock()
	if db != nil {
		return db, nil
	}
	_db, err := Open(config.Get().DSN())
	if err != nil {
		log.Printf("Error connecting to database: %s\n", err.Error())
		return nil, err
	}
	db = _db
	return db, nil
}

func NewDB(newdb *gorm.DB) {
	mu.Lock()
	defer mu.Unlock()
	db = newdb
}
