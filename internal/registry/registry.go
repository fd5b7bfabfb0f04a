// Package registry tracks completed EnergyPlus installs in SQLite.
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Sentinel errors following Dave Cheney's principle: define errors as values
var (
	ErrNilInstall = errors.New("install cannot be nil")
	ErrNotFound   = errors.New("install not found")
)

// Install records one installed EnergyPlus distribution.
type Install struct {
	ID uint `gorm:"primaryKey"`

	Version  string `gorm:"not null;uniqueIndex"`
	Revision string
	Platform string

	SourceURL string `gorm:"not null"`
	RootPath  string `gorm:"not null"`

	InstalledAt time.Time `gorm:"not null"`
}

// DB wraps a GORM database for install tracking.
type DB struct {
	db *gorm.DB
}

// Open opens (or creates) the registry database at path and migrates the
// schema.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(abs), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&Install{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &DB{db: db}, nil
}

// RecordInstall inserts or updates the record for an install. Upserts by
// version: re-installing a version refreshes its path, URL and timestamp.
func (d *DB) RecordInstall(install *Install) error {
	if install == nil {
		return ErrNilInstall
	}
	if install.InstalledAt.IsZero() {
		install.InstalledAt = time.Now()
	}

	var existing Install
	err := d.db.Where("version = ?", install.Version).First(&existing).Error
	switch {
	case err == nil:
		install.ID = existing.ID
		if err := d.db.Save(install).Error; err != nil {
			return fmt.Errorf("failed to update install: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := d.db.Create(install).Error; err != nil {
			return fmt.Errorf("failed to create install: %w", err)
		}
	default:
		return fmt.Errorf("failed to look up install: %w", err)
	}

	return nil
}

// GetInstall retrieves the install record for a version. Returns
// ErrNotFound if the version was never recorded.
func (d *DB) GetInstall(version string) (*Install, error) {
	if version == "" {
		return nil, fmt.Errorf("version cannot be empty")
	}

	var install Install
	if err := d.db.Where("version = ?", version).First(&install).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get install: %w", err)
	}

	return &install, nil
}

// ListInstalls returns all recorded installs, newest first.
func (d *DB) ListInstalls() ([]Install, error) {
	var installs []Install
	if err := d.db.Order("installed_at DESC").Find(&installs).Error; err != nil {
		return nil, fmt.Errorf("failed to list installs: %w", err)
	}
	return installs, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection: %w", err)
	}
	return sqlDB.Close()
}
