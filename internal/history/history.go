// Package history persists generated route files and simulator runs so that
// earlier sessions can be inspected and replayed.
package history

import (
	"database/sql"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/geobeam/geobeam/internal/config"
)

// Manager handles history database connections and operations.
type Manager struct {
	DB      *gorm.DB
	SqlDB   *sql.DB
	IsValid bool
	Logger  zerolog.Logger

	cfg config.HistoryConfig
}

// NewManager creates a new history manager. Call Connect and Setup before
// recording anything.
func NewManager(log zerolog.Logger, cfg config.HistoryConfig) *Manager {
	return &Manager{
		IsValid: false,
		Logger:  log,
		cfg:     cfg,
	}
}

// Connect establishes a database connection. With the postgres driver a
// connection failure falls back to the local SQLite file. A disabled
// history section leaves the manager inert and is not an error.
func (m *Manager) Connect() error {
	if !m.cfg.Enabled {
		m.Logger.Info().Msg("History recording disabled")
		return nil
	}

	var usingLocal bool
	switch m.cfg.Driver {
	case "", "sqlite":
		usingLocal = true
	case "postgres":
	default:
		return fmt.Errorf("unknown history driver %q", m.cfg.Driver)
	}

	var err error
	if usingLocal {
		m.DB, err = m.getSqliteDB(m.cfg.SqlitePath)
	} else {
		m.DB, err = m.getPostgresDB()
		if err != nil {
			m.Logger.Error().Err(err).Msg("Failed to connect to Postgres DB, trying SQLite")
			usingLocal = true
			m.DB, err = m.getSqliteDB(m.cfg.SqlitePath)
		}
	}
	if err != nil || m.DB == nil {
		m.IsValid = false
		return fmt.Errorf("failed to open history DB: %w", err)
	}

	// test connection
	m.SqlDB, err = m.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}

	if err = m.SqlDB.Ping(); err != nil {
		if usingLocal {
			m.IsValid = false
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		m.Logger.Error().Err(err).Msg("Failed to validate connection, trying SQLite")
		usingLocal = true
		m.DB, err = m.getSqliteDB(m.cfg.SqlitePath)
		if err != nil || m.DB == nil {
			m.IsValid = false
			return fmt.Errorf("failed to open history DB: %w", err)
		}
		if m.SqlDB, err = m.DB.DB(); err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
	}

	if !usingLocal {
		m.SqlDB.SetMaxOpenConns(10)
	}

	m.Logger.Info().Msg("Connected to history database")
	m.IsValid = true
	return nil
}

// getPostgresDB returns a connection to the configured Postgres database.
func (m *Manager) getPostgresDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		m.cfg.Host,
		m.cfg.Port,
		m.cfg.Username,
		m.cfg.Password,
		m.cfg.Database,
	)

	m.Logger.Debug().Str("host", m.cfg.Host).Str("database", m.cfg.Database).Msg("Connecting to Postgres DB")

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        1000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// getSqliteDB returns a connection to a SQLite database. If path is empty,
// an in-memory database is used.
func (m *Manager) getSqliteDB(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
		m.Logger.Info().Msg("Using in-memory SQLite history DB")
	} else {
		m.Logger.Info().Str("path", path).Msg("Using local SQLite history DB")
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        1000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// set PRAGMAS
	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA temp_store = MEMORY;",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	return db, nil
}

// Setup migrates the history schema. It is a no-op for an inert manager.
func (m *Manager) Setup() error {
	if !m.IsValid {
		return nil
	}

	m.Logger.Info().Msg("Migrating history schema")
	if err := m.DB.AutoMigrate(DatabaseModels...); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

// RecordRouteFile inserts a record for a generated motion file.
func (m *Manager) RecordRouteFile(rf *RouteFile) error {
	if m == nil || !m.IsValid {
		return nil
	}
	if err := m.DB.Create(rf).Error; err != nil {
		return fmt.Errorf("failed to record route file: %w", err)
	}
	return nil
}

// RecordRun inserts a record for a simulator run.
func (m *Manager) RecordRun(r *Run) error {
	if m == nil || !m.IsValid {
		return nil
	}
	if err := m.DB.Create(r).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (m *Manager) RecentRuns(limit int) ([]Run, error) {
	if m == nil || !m.IsValid {
		return nil, nil
	}
	var runs []Run
	if err := m.DB.Order("id desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return runs, nil
}

// RecentRouteFiles returns up to limit route file records, newest first.
func (m *Manager) RecentRouteFiles(limit int) ([]RouteFile, error) {
	if m == nil || !m.IsValid {
		return nil, nil
	}
	var files []RouteFile
	if err := m.DB.Order("id desc").Limit(limit).Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to query route files: %w", err)
	}
	return files, nil
}

// Close closes the underlying connection.
func (m *Manager) Close() error {
	if m.SqlDB != nil {
		return m.SqlDB.Close()
	}
	return nil
}
