package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// DefaultConfigPath is read when no explicit path is given to Load.
var DefaultConfigPath = filepath.Join("config", "config.json")

// AppConfig holds file and environment driven configuration values.
// Credentials never have defaults inside code and must come from the config file or the environment.
type AppConfig struct {
	AppPort            string
	GinMode            string
	AllowedOrigins     []string
	RateLimitPerMinute int

	// Database
	DBDriver        string
	DatabaseURI     string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	QueryTimeoutSec int

	// Logging
	LogLevel      string
	LogPath       string
	GinPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// Redis backs the shared rate-limit counters; empty host keeps them in memory.
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string

	// Behaviour kept for existing clients.
	EmptyAnswersAsNotFound     bool
	AnswerVoteErrorsAsNotFound bool
}

// fileConfig mirrors the grouped layout of config.json. Pointers distinguish
// "absent" from an explicit zero/false.
type fileConfig struct {
	App struct {
		AppPort            string   `json:"AppPort"`
		GinMode            string   `json:"GinMode"`
		AllowedOrigins     []string `json:"AllowedOrigins"`
		RateLimitPerMinute *int     `json:"RateLimitPerMinute"`
	} `json:"app"`
	Database struct {
		Driver          string `json:"Driver"`
		DatabaseURI     string `json:"DatabaseURI"`
		DBHost          string `json:"DBHost"`
		DBPort          string `json:"DBPort"`
		DBUser          string `json:"DBUser"`
		DBPassword      string `json:"DBPassword"`
		DBName          string `json:"DBName"`
		MaxOpenConns    int    `json:"MaxOpenConns"`
		MaxIdleConns    int    `json:"MaxIdleConns"`
		QueryTimeoutSec int    `json:"QueryTimeoutSec"`
	} `json:"database"`
	Log struct {
		Level      string `json:"Level"`
		Path       string `json:"Path"`
		GinPath    string `json:"GinPath"`
		MaxSizeMB  int    `json:"MaxSizeMB"`
		MaxBackups int    `json:"MaxBackups"`
		MaxAgeDays int    `json:"MaxAgeDays"`
		Compress   bool   `json:"Compress"`
	} `json:"log"`
	Redis struct {
		RedisHost     string `json:"RedisHost"`
		RedisPort     int    `json:"RedisPort"`
		RedisDB       int    `json:"RedisDB"`
		RedisPassword string `json:"RedisPassword"`
	} `json:"redis"`
	Compat struct {
		EmptyAnswersAsNotFound     *bool `json:"EmptyAnswersAsNotFound"`
		AnswerVoteErrorsAsNotFound *bool `json:"AnswerVoteErrorsAsNotFound"`
	} `json:"compat"`
}

var (
	cfg    AppConfig
	loaded bool
	mu     sync.RWMutex
)

// Load reads configuration once during boot. An empty path means DefaultConfigPath.
func Load(path string) AppConfig {
	mu.Lock()
	defer mu.Unlock()
	if loaded {
		return cfg
	}
	if path == "" {
		path = DefaultConfigPath
	}
	c, err := Parse(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg = c
	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it from the default path if necessary.
func Get() AppConfig {
	mu.RLock()
	if loaded {
		defer mu.RUnlock()
		return cfg
	}
	mu.RUnlock()
	return Load("")
}

// Set replaces the cached configuration. Used by tests and embedding programs.
func Set(c AppConfig) {
	mu.Lock()
	cfg = c
	loaded = true
	mu.Unlock()
}

// Parse builds a configuration from the JSON file with environment overrides on
// top; defaults fill whatever is still empty. A missing file is not an error.
func Parse(path string) (AppConfig, error) {
	var c AppConfig
	if err := loadJSONConfig(path, &c); err != nil {
		return AppConfig{}, err
	}
	if err := applyEnvOverrides(&c); err != nil {
		return AppConfig{}, err
	}
	// after overrides so DB_DRIVER picks the matching default port
	applyDefaults(&c)
	return c, nil
}

// Defaults returns a configuration holding only default values.
func Defaults() AppConfig {
	c := AppConfig{
		EmptyAnswersAsNotFound:     true,
		AnswerVoteErrorsAsNotFound: true,
	}
	applyDefaults(&c)
	return c
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func loadJSONConfig(path string, out *AppConfig) error {
	// compat switches default to on; the file can only turn them off explicitly
	out.EmptyAnswersAsNotFound = true
	out.AnswerVoteErrorsAsNotFound = true

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var fc fileConfig
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	out.AppPort = fc.App.AppPort
	out.GinMode = fc.App.GinMode
	out.AllowedOrigins = fc.App.AllowedOrigins
	if fc.App.RateLimitPerMinute != nil {
		out.RateLimitPerMinute = *fc.App.RateLimitPerMinute
	}

	out.DBDriver = fc.Database.Driver
	out.DatabaseURI = fc.Database.DatabaseURI
	out.DBHost = fc.Database.DBHost
	out.DBPort = fc.Database.DBPort
	out.DBUser = fc.Database.DBUser
	out.DBPassword = fc.Database.DBPassword
	out.DBName = fc.Database.DBName
	out.DBMaxOpenConns = fc.Database.MaxOpenConns
	out.DBMaxIdleConns = fc.Database.MaxIdleConns
	out.QueryTimeoutSec = fc.Database.QueryTimeoutSec

	out.LogLevel = fc.Log.Level
	out.LogPath = fc.Log.Path
	out.GinPath = fc.Log.GinPath
	out.LogMaxSizeMB = fc.Log.MaxSizeMB
	out.LogMaxBackups = fc.Log.MaxBackups
	out.LogMaxAgeDays = fc.Log.MaxAgeDays
	out.LogCompress = fc.Log.Compress

	out.RedisHost = fc.Redis.RedisHost
	out.RedisPort = fc.Redis.RedisPort
	out.RedisDB = fc.Redis.RedisDB
	out.RedisPassword = fc.Redis.RedisPassword

	if fc.Compat.EmptyAnswersAsNotFound != nil {
		out.EmptyAnswersAsNotFound = *fc.Compat.EmptyAnswersAsNotFound
	}
	if fc.Compat.AnswerVoteErrorsAsNotFound != nil {
		out.AnswerVoteErrorsAsNotFound = *fc.Compat.AnswerVoteErrorsAsNotFound
	}
	return nil
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "4000"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBDriver == "" {
		c.DBDriver = DriverPostgres
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		switch c.DBDriver {
		case DriverMySQL:
			c.DBPort = "3306"
		default:
			c.DBPort = "5432"
		}
	}
	if c.DBUser == "" {
		c.DBUser = "postgres"
	}
	if c.DBName == "" {
		c.DBName = "qaboard"
	}
	if c.DBMaxOpenConns == 0 {
		c.DBMaxOpenConns = 20
	}
	if c.DBMaxIdleConns == 0 {
		c.DBMaxIdleConns = 5
	}
	if c.GinPath == "" {
		c.GinPath = "logs/gin.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) error {
	var errs []error
	intEnv := func(key string, dst *int) {
		if v := getEnv(key, ""); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid integer value %s=%q: %w", key, v, err))
				return
			}
			*dst = n
		}
	}
	boolEnv := func(key string, dst *bool) {
		if v := getEnv(key, ""); v != "" {
			*dst = strings.EqualFold(v, "true") || v == "1"
		}
	}
	strEnv := func(key string, dst *string) {
		if v := getEnv(key, ""); v != "" {
			*dst = v
		}
	}

	strEnv("APP_PORT", &c.AppPort)
	strEnv("GIN_MODE", &c.GinMode)
	c.AllowedOrigins = readListEnv("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	intEnv("RATE_LIMIT_PER_MINUTE", &c.RateLimitPerMinute)

	strEnv("DB_DRIVER", &c.DBDriver)
	strEnv("DATABASE_URI", &c.DatabaseURI)
	strEnv("DB_HOST", &c.DBHost)
	strEnv("DB_PORT", &c.DBPort)
	strEnv("DB_USER", &c.DBUser)
	strEnv("DB_PASSWORD", &c.DBPassword)
	strEnv("DB_NAME", &c.DBName)
	intEnv("DB_MAX_OPEN_CONNS", &c.DBMaxOpenConns)
	intEnv("DB_MAX_IDLE_CONNS", &c.DBMaxIdleConns)
	intEnv("DB_QUERY_TIMEOUT_SEC", &c.QueryTimeoutSec)

	strEnv("LOG_LEVEL", &c.LogLevel)
	strEnv("LOG_PATH", &c.LogPath)
	strEnv("GIN_PATH", &c.GinPath)
	intEnv("LOG_MAX_SIZE_MB", &c.LogMaxSizeMB)
	intEnv("LOG_MAX_BACKUPS", &c.LogMaxBackups)
	intEnv("LOG_MAX_AGE_DAYS", &c.LogMaxAgeDays)
	boolEnv("LOG_COMPRESS", &c.LogCompress)

	strEnv("REDIS_HOST", &c.RedisHost)
	intEnv("REDIS_PORT", &c.RedisPort)
	intEnv("REDIS_DB", &c.RedisDB)
	strEnv("REDIS_PASSWORD", &c.RedisPassword)

	boolEnv("COMPAT_EMPTY_ANSWERS_NOT_FOUND", &c.EmptyAnswersAsNotFound)
	boolEnv("COMPAT_ANSWER_VOTE_ERRORS_NOT_FOUND", &c.AnswerVoteErrorsAsNotFound)

	return errors.Join(errs...)
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
