// Package sqlite is the embedded, single-node identity.Store adapter (C6),
// selected via database.driver: sqlite for development and single-process
// deployments where a separate PostgreSQL instance is unwarranted.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aoserver/aoserver/internal/logger"
)

type ipidRecord struct {
	Ipid      int64  `gorm:"column:ipid;primaryKey;autoIncrement"`
	IPAddress string `gorm:"column:ip_address;uniqueIndex"`
}

func (ipidRecord) TableName() string { return "ipids" }

type hdidRecord struct {
	Hdid string `gorm:"column:hdid;primaryKey"`
	Ipid int64  `gorm:"column:ipid;primaryKey"`
}

func (hdidRecord) TableName() string { return "hdids" }

// Store implements identity.Store over an embedded SQLite database via
// GORM, the same driver pairing (glebarez/sqlite + gorm.io/gorm) the
// teacher uses for its own single-node control-plane backend.
type Store struct {
	db *gorm.DB
}

// New opens (creating if absent) the SQLite database at path and ensures
// the identity tables exist.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Matches the teacher's WAL + busy_timeout pragma pairing for
	// concurrent single-writer access under a per-connection goroutine
	// model.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&ipidRecord{}, &hdidRecord{}); err != nil {
		return nil, fmt.Errorf("migrating identity schema: %w", err)
	}

	logger.Info("sqlite identity store ready", logger.StoreDriver("sqlite"))
	return &Store{db: db}, nil
}

// Ipid resolves ip to a stable identity id, inserting a new row the first
// time an ip is seen. The OnConflict clause makes the insert a no-op
// against a concurrent writer for the same ip, matching the
// insert-then-select shape of the Postgres adapter.
func (s *Store) Ipid(ctx context.Context, ip string) (int64, error) {
	rec := ipidRecord{IPAddress: ip}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "ip_address"}}, DoNothing: true}).
		Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("inserting ipid: %w", err)
	}

	var found ipidRecord
	if err := s.db.WithContext(ctx).Where("ip_address = ?", ip).First(&found).Error; err != nil {
		return 0, fmt.Errorf("selecting ipid: %w", err)
	}
	return found.Ipid, nil
}

// AddHdid records a hardware-id-to-identity association, ignoring
// duplicate (hdid, ipid) pairs.
func (s *Store) AddHdid(ctx context.Context, hdid string, ipid int64) error {
	rec := hdidRecord{Hdid: hdid, Ipid: ipid}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec).Error; err != nil {
		return fmt.Errorf("inserting hdid: %w", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
