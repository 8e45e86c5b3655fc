// Package testing provides test utilities and database setup for testing the ledger
package testing

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/promolane/promolane/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB represents a hermetic in-memory test database instance
type TestDB struct {
	DB   *gorm.DB
	Name string
}

// SetupTestDB creates a new in-memory database with a unique name and runs
// migrations. The shared-cache DSN plus a single connection keeps every
// goroutine on the same in-memory store, which is what the transactional
// flows need when tests run concurrent callers.
func SetupTestDB() (*TestDB, error) {
	name := fmt.Sprintf("ledger_test_%d_%d", time.Now().UnixNano(), rand.Intn(10000))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open test database %s: %w", name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// One connection: the store serializes transactions instead of
	// returning SQLITE_BUSY to concurrent writers.
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations on test database %s: %w", name, err)
	}

	return &TestDB{
		DB:   db,
		Name: name,
	}, nil
}

// TeardownTestDB closes the connection; the in-memory store dies with it
func (tdb *TestDB) TeardownTestDB() error {
	if tdb.DB == nil {
		return nil
	}

	sqlDB, err := tdb.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// TestWithDB runs a test function with a fresh database and tears it down
// afterwards
func TestWithDB(testFunc func(*TestDB) error) error {
	testDB, err := SetupTestDB()
	if err != nil {
		return fmt.Errorf("failed to setup test database: %w", err)
	}
	defer func() {
		if cleanupErr := testDB.TeardownTestDB(); cleanupErr != nil {
			log.Printf("Warning: failed to cleanup test database: %v", cleanupErr)
		}
	}()

	return testFunc(testDB)
}

// ClearAllTables removes all data from tables while preserving structure
func (tdb *TestDB) ClearAllTables() error {
	// Order matters due to foreign key constraints
	tables := []string{
		"wallet_transactions",
		"campaign_actions",
		"unique_clicks",
		"wallets",
		"tracked_links",
		"campaigns",
		"promoters",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	return nil
}
