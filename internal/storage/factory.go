package storage

import (
	"fmt"
	"log/slog"

	"github.com/Falloutization/royalty/internal/config"
	"github.com/Falloutization/royalty/internal/database"
	gormstorage "github.com/Falloutization/royalty/internal/storage/gorm"
	"github.com/Falloutization/royalty/internal/storage/memory"
)

// NewBackend creates a storage backend based on configuration. The gorm
// backends take their connection from db.
func NewBackend(cfg config.StorageConfig, db *database.Manager, version string, logger *slog.Logger) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "sqlite", "postgres":
		if db == nil {
			return nil, fmt.Errorf("%s backend needs a database manager", cfg.Type)
		}
		db.SqliteFilePath = cfg.SQLite.Path
		if err := db.Connect(cfg.Type); err != nil {
			return nil, err
		}
		if err := db.Setup(); err != nil {
			return nil, err
		}
		return gormstorage.New(gormstorage.Dependencies{
			DB:     db.DB,
			Logger: logger,
		}, gormstorage.Config{
			FlushInterval:    cfg.FlushInterval,
			ExtensionVersion: version,
			StorageType:      db.DB.Dialector.Name(),
		}), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
