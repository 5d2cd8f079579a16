package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/magiconair/properties"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"

	defaultPropertiesFile = "db.properties"
	defaultDatabaseURL    = "postgres://localhost:5432/makeup_inventory?sslmode=disable"
	defaultDatabaseUser   = "root"
	defaultDatabasePass   = "admin123"
)

// ErrUnsupportedDatabase is returned for database URLs other than Postgres
// and sqlite. MySQL is among them: the queries rely on $N placeholders and
// INSERT ... RETURNING.
var ErrUnsupportedDatabase = errors.New("unsupported database, use a postgres:// or sqlite:// url")

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Files    FilesConfig
}

type DatabaseConfig struct {
	URL             string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret         string
	TokenTTL          time.Duration
	AllowRegistration bool
	BootstrapUser     string
	BootstrapPassword string
}

// FilesConfig holds the paths of the files exchanged with operators. The
// file names are fixed; only the directory is configurable.
type FilesConfig struct {
	CSVPath    string
	BackupPath string
	LogPath    string
}

// Load resolves configuration. Database connection settings are looked up in
// the environment first, then in the properties file, then fall back to
// built-in defaults. A .env file, when present, is loaded into the
// environment before anything else.
func Load() (*Config, error) {
	godotenv.Load()

	props, err := loadProperties(getEnv("DB_PROPERTIES", defaultPropertiesFile))
	if err != nil {
		return nil, err
	}

	dataDir := getEnv("INVENTORY_DATA_DIR", ".")

	cfg := &Config{
		Database: DatabaseConfig{
			URL:             resolve("DB_URL", props, "db.url", defaultDatabaseURL),
			User:            resolve("DB_USER", props, "db.user", defaultDatabaseUser),
			Password:        resolve("DB_PASS", props, "db.pass", defaultDatabasePass),
			MaxOpenConns:    getEnvInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DATABASE_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", false),
		},
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", "change-me"),
			TokenTTL:          getEnvDuration("JWT_TTL", 8*time.Hour),
			AllowRegistration: getEnvBool("ALLOW_REGISTRATION", false),
			BootstrapUser:     getEnv("BOOTSTRAP_ADMIN_USER", ""),
			BootstrapPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
		},
		Files: FilesConfig{
			CSVPath:    filepath.Join(dataDir, "inventory.csv"),
			BackupPath: filepath.Join(dataDir, "inventory_backup.txt"),
			LogPath:    filepath.Join(dataDir, "inventory_log.txt"),
		},
	}

	if _, err := cfg.Database.DSN(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Driver infers the database/sql driver name from the configured URL.
func (c DatabaseConfig) Driver() string {
	u := strings.TrimPrefix(c.URL, "jdbc:")
	if strings.HasPrefix(u, "sqlite://") || strings.HasPrefix(u, "file:") {
		return DriverSQLite
	}
	return DriverPostgres
}

// DSN returns the data source name handed to sql.Open. For Postgres the
// configured user and password are merged into the URL unless it already
// carries credentials.
func (c DatabaseConfig) DSN() (string, error) {
	raw := strings.TrimPrefix(c.URL, "jdbc:")

	if c.Driver() == DriverSQLite {
		return strings.TrimPrefix(raw, "sqlite://"), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("%w: scheme %q", ErrUnsupportedDatabase, u.Scheme)
	}
	if u.User == nil && c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}

	return u.String(), nil
}

func loadProperties(path string) (*properties.Properties, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return properties.NewProperties(), nil
		}
		return nil, fmt.Errorf("stat properties file: %w", err)
	}

	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("load properties file %s: %w", path, err)
	}
	return props, nil
}

func resolve(envKey string, props *properties.Properties, propKey, defaultValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return props.GetString(propKey, defaultValue)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		fmt.Printf("Warning: invalid duration for %s, using default\n", key)
	}
	return defaultValue
}
