package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cppla/qaboard/models"
)

// Supported values for AppConfig.DBDriver.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

var (
	db   *gorm.DB
	dbMu sync.Mutex
)

// InitDatabase opens the process-wide store handle from the cached configuration.
// Subsequent calls return the same handle until CloseDatabase is called.
func InitDatabase() *gorm.DB {
	dbMu.Lock()
	defer dbMu.Unlock()
	if db != nil {
		return db
	}
	opened, err := OpenDatabase(Get())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	db = opened
	return db
}

// DB provides access to the initialized gorm handle.
func DB() *gorm.DB {
	dbMu.Lock()
	defer dbMu.Unlock()
	if db == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return db
}

// CloseDatabase releases the pool opened by InitDatabase.
func CloseDatabase() error {
	dbMu.Lock()
	defer dbMu.Unlock()
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// OpenDatabase connects with the configured driver, tunes the pool, pings and
// creates any missing tables. The caller owns the returned handle.
func OpenDatabase(c AppConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(c)
	if err != nil {
		return nil, err
	}

	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(c.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gLogger})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.DBDriver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if c.DBDriver == DriverSQLite {
		// foreign_keys is a per-connection pragma
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(c.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(c.DBMaxIdleConns)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if c.DBDriver == DriverSQLite {
		if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	// Create missing tables only; existing schemas are left untouched.
	var missing []interface{}
	for _, model := range models.All() {
		if !gdb.Migrator().HasTable(model) {
			missing = append(missing, model)
		}
	}
	if len(missing) > 0 {
		if err := gdb.AutoMigrate(missing...); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("auto migration failed: %w", err)
		}
	}
	return gdb, nil
}

func dialectorFor(c AppConfig) (gorm.Dialector, error) {
	switch strings.ToLower(c.DBDriver) {
	case DriverPostgres, "postgresql", "pgx":
		dsn := c.DatabaseURI
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
				c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
		}
		return postgres.Open(dsn), nil
	case DriverMySQL:
		dsn := c.DatabaseURI
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
		}
		return mysql.Open(mysqlDSN(dsn)), nil
	case DriverSQLite, "sqlite3":
		path := c.DatabaseURI
		if path == "" {
			path = c.DBName + ".db"
		}
		return sqlite.Open(sqliteDSN(path)), nil
	default:
		return nil, errors.New("unsupported database driver: " + c.DBDriver)
	}
}

// mysqlDSN reports matched rather than changed rows, so an update that writes
// identical values still counts as finding the row.
func mysqlDSN(dsn string) string {
	if strings.Contains(dsn, "clientFoundRows=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "clientFoundRows=true"
}

// sqliteDSN makes sure the parent directory exists and foreign keys are enforced.
func sqliteDSN(path string) string {
	file := path
	if i := strings.IndexByte(file, '?'); i >= 0 {
		file = file[:i]
	}
	file = strings.TrimPrefix(file, "file:")
	if file != ":memory:" && !strings.Contains(path, "mode=memory") {
		if dir := filepath.Dir(file); dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
	}
	if strings.Contains(path, "_foreign_keys") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		// per-statement logs are suppressed; slow SQL still shows
		return logger.Warn
	}
}
