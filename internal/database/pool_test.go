package database

import (
	"path/filepath"
	"testing"
	"time"

	"habit-tracker/backend/internal/config"
	"habit-tracker/backend/internal/models"

	"gorm.io/gorm/logger"
)

func newMemoryPool(t *testing.T) *DatabasePool {
	t.Helper()
	pool, err := NewDatabasePool(&PoolConfig{
		Driver:       config.DriverSQLite,
		DSN:          ":memory:",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		LogLevel:     logger.Silent,
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

func TestDefaultPoolConfig(t *testing.T) {
	config := DefaultPoolConfig()

	if config.MaxOpenConns != 25 {
		t.Errorf("Expected MaxOpenConns to be 25, got %d", config.MaxOpenConns)
	}

	if config.MaxIdleConns != 10 {
		t.Errorf("Expected MaxIdleConns to be 10, got %d", config.MaxIdleConns)
	}

	if config.ConnMaxLifetime != time.Hour {
		t.Errorf("Expected ConnMaxLifetime to be 1 hour, got %v", config.ConnMaxLifetime)
	}

	if config.ConnMaxIdleTime != time.Minute*30 {
		t.Errorf("Expected ConnMaxIdleTime to be 30 minutes, got %v", config.ConnMaxIdleTime)
	}

	if config.LogLevel != logger.Info {
		t.Errorf("Expected LogLevel to be Info, got %v", config.LogLevel)
	}
}

func TestNewPoolConfig_FromAppConfig(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Environment: "production"},
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			Path:         "habits.db",
			MaxOpenConns: 4,
			MaxIdleConns: 2,
		},
	}

	pc := NewPoolConfig(cfg, nil)

	if pc.Driver != config.DriverSQLite || pc.DSN != "habits.db" {
		t.Errorf("Expected sqlite habits.db, got %s %s", pc.Driver, pc.DSN)
	}
	if pc.MaxOpenConns != 4 || pc.MaxIdleConns != 2 {
		t.Errorf("Expected pool limits 4/2, got %d/%d", pc.MaxOpenConns, pc.MaxIdleConns)
	}
	if pc.LogLevel != logger.Warn {
		t.Errorf("Expected Warn log level in production, got %v", pc.LogLevel)
	}
}

func TestNewDatabasePool_WithNilConfig(t *testing.T) {
	_, err := NewDatabasePool(nil)

	if err == nil {
		t.Error("Expected error due to empty DSN, got nil")
	}

	if err != nil && err.Error() == "" {
		t.Error("Expected non-empty error message")
	}
}

func TestNewDatabasePool_UnsupportedDriver(t *testing.T) {
	config := &PoolConfig{
		Driver:          "mysql",
		DSN:             "user:pass@tcp(localhost:3306)/habits",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute * 30,
		ConnMaxIdleTime: time.Minute * 15,
		LogLevel:        logger.Silent,
	}

	_, err := NewDatabasePool(config)

	if err == nil {
		t.Error("Expected error due to unsupported driver, got nil")
	}
}

func TestNewDatabasePool_SQLiteMemoryMigrates(t *testing.T) {
	pool := newMemoryPool(t)

	if err := pool.Migrate(); err != nil {
		t.Fatalf("Expected migration to succeed, got: %v", err)
	}

	for _, table := range []interface{}{&models.User{}, &models.Task{}, &models.DailyProgress{}} {
		if !pool.DB.Migrator().HasTable(table) {
			t.Errorf("Expected table for %T to exist", table)
		}
	}

	if !pool.DB.Migrator().HasIndex(&models.DailyProgress{}, "idx_progress_task_date") {
		t.Error("Expected unique (task_id, date) index on daily_progress")
	}

	if err := pool.Health(); err != nil {
		t.Errorf("Expected healthy pool, got: %v", err)
	}

	stats := pool.Stats()
	if _, hasError := stats["error"]; hasError {
		t.Errorf("Expected stats without error, got %v", stats)
	}
	if stats["driver"] != config.DriverSQLite {
		t.Errorf("Expected driver sqlite in stats, got %v", stats["driver"])
	}
}

func TestDatabasePool_Stats_WithoutConnection(t *testing.T) {
	pool := &DatabasePool{
		DB: nil,
		config: &PoolConfig{
			MaxOpenConns: 10,
		},
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Stats() should handle nil DB gracefully, but got panic: %v", r)
		}
	}()

	stats := pool.Stats()

	if _, hasError := stats["error"]; !hasError {
		t.Error("Expected error in stats when DB is nil")
	}
}

func TestDatabasePool_Health_WithoutConnection(t *testing.T) {
	pool := &DatabasePool{
		DB: nil,
	}

	err := pool.Health()

	if err == nil {
		t.Error("Expected error when checking health with nil DB")
	}
}

func TestDatabasePool_Close_WithoutConnection(t *testing.T) {
	pool := &DatabasePool{
		DB: nil,
	}

	err := pool.Close()

	if err != nil {
		t.Errorf("Expected no error when closing nil DB, got: %v", err)
	}
}

func TestPoolConfig_Validation(t *testing.T) {
	tests := []struct {
		name     string
		config   *PoolConfig
		expected bool
	}{
		{
			name: "Valid configuration",
			config: &PoolConfig{
				Driver:          config.DriverSQLite,
				DSN:             ":memory:",
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: time.Hour,
				ConnMaxIdleTime: time.Minute * 30,
				LogLevel:        logger.Silent,
			},
			expected: true,
		},
		{
			name: "Zero values configuration",
			config: &PoolConfig{
				DSN:             "",
				MaxOpenConns:    0,
				MaxIdleConns:    0,
				ConnMaxLifetime: 0,
				ConnMaxIdleTime: 0,
				LogLevel:        logger.Silent,
			},
			expected: false,
		},
		{
			name: "Negative values configuration",
			config: &PoolConfig{
				Driver:          config.DriverSQLite,
				DSN:             ":memory:",
				MaxOpenConns:    -1,
				MaxIdleConns:    -1,
				ConnMaxLifetime: -time.Hour,
				ConnMaxIdleTime: -time.Minute,
				LogLevel:        logger.Info,
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := NewDatabasePool(tt.config)
			if pool != nil {
				defer pool.Close()
			}

			if tt.expected && err != nil {
				t.Error("Expected successful pool creation but got error:", err)
			} else if !tt.expected && err == nil {
				t.Error("Expected error but pool creation succeeded")
			}
		})
	}
}

func BenchmarkDefaultPoolConfig(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = DefaultPoolConfig()
	}
}

func TestWithSQLiteFileParams(t *testing.T) {
	tests := []struct {
		dsn      string
		expected string
	}{
		{"habits.db", "habits.db?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"},
		{"file:habits.db?cache=shared", "file:habits.db?cache=shared&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"},
		{"habits.db?_busy_timeout=100", "habits.db?_busy_timeout=100&_journal_mode=WAL&_txlock=immediate"},
	}

	for _, tt := range tests {
		if got := withSQLiteFileParams(tt.dsn); got != tt.expected {
			t.Errorf("withSQLiteFileParams(%q) = %q, want %q", tt.dsn, got, tt.expected)
		}
	}
}

func TestNewDatabasePool_SQLiteFileUsesWAL(t *testing.T) {
	pool, err := NewDatabasePool(&PoolConfig{
		Driver:       config.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "habits.db"),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		LogLevel:     logger.Silent,
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite pool: %v", err)
	}
	defer pool.Close()

	var mode string
	if err := pool.DB.Raw("PRAGMA journal_mode").Scan(&mode).Error; err != nil {
		t.Fatalf("Failed to read journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected wal journal mode, got %q", mode)
	}
}
