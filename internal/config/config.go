package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var errMissingSetting = errors.New("required setting not provided")

// Store drivers selectable with STORE_DRIVER.
const (
	DriverSheets   = "sheets"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config is the process-wide configuration, read once at startup.
type Config struct {
	Port     string
	LogLevel string

	JWTSecret         string
	SignupUniqueEmail bool

	StoreDriver      string
	UsersSheet       string
	SubmissionsSheet string

	ClientEmail string
	PrivateKey  string
	SheetID     string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	RabbitMQURL string
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Load reads an optional .env file, then the environment, into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from v after applying defaults.
func FromViper(v *viper.Viper) (Config, error) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SIGNUP_UNIQUE_EMAIL", true)
	v.SetDefault("STORE_DRIVER", DriverSheets)
	v.SetDefault("USERS_SHEET", "Users")
	v.SetDefault("SUBMISSIONS_SHEET", "BasicInfo")
	v.SetDefault("DATABASE_DSN", "formsheet.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "formsheet")

	cfg := Config{
		Port:              v.GetString("PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		SignupUniqueEmail: v.GetBool("SIGNUP_UNIQUE_EMAIL"),
		StoreDriver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		UsersSheet:        v.GetString("USERS_SHEET"),
		SubmissionsSheet:  v.GetString("SUBMISSIONS_SHEET"),
		ClientEmail:       v.GetString("CLIENT_EMAIL"),
		PrivateKey:        strings.ReplaceAll(v.GetString("PRIVATE_KEY"), `\n`, "\n"),
		SheetID:           v.GetString("SHEET_ID"),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		RedisPrefix:       v.GetString("REDIS_PREFIX"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting the selected store driver needs is present.
func (c Config) Validate() error {
	required := map[string]string{"JWT_SECRET": c.JWTSecret}

	switch c.StoreDriver {
	case DriverSheets:
		required["CLIENT_EMAIL"] = c.ClientEmail
		required["PRIVATE_KEY"] = c.PrivateKey
		required["SHEET_ID"] = c.SheetID
	case DriverSQLite, DriverPostgres:
		required["DATABASE_DSN"] = c.DatabaseDSN
	case DriverRedis:
		required["REDIS_ADDR"] = c.RedisAddr
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	var missing []string
	for key, value := range required {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", errMissingSetting, strings.Join(missing, ", "))
	}
	return nil
}
