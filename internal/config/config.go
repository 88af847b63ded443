package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrNoDelivery                  = errors.New("neither telegram token nor http address is configured")
	ErrUnknownResultsDriver        = errors.New("unknown results driver")
)

// Results store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`             // current application environment (local, dev, production)
	LogLevel         string    `mapstructure:"log_level"`       // optional zap level override (debug, info, warn, error)
	TelegramAPIToken string    `mapstructure:"-"`               // Telegram API token loaded from environment
	AccessPassword   string    `mapstructure:"access_password"` // shared quiz password, empty disables the gate
	Questions        Questions `mapstructure:"questions"`       // question source section
	Quiz             Quiz      `mapstructure:"quiz"`            // session behaviour section
	HTTP             HTTP      `mapstructure:"http"`            // JSON API section
	Results          Results   `mapstructure:"results"`         // result history section
	DB               DB        `mapstructure:"database"`        // database configuration section
}

// Questions describes where questions are loaded from and how rows are parsed.
type Questions struct {
	Source        string `mapstructure:"source"`         // CSV path relative to base_url or the working directory
	BaseURL       string `mapstructure:"base_url"`       // optional HTTP base, switches the loader to HTTP fetching
	PerCategory   bool   `mapstructure:"per_category"`   // fetch categories_dir/<slug>.csv on category selection
	CategoriesDir string `mapstructure:"categories_dir"` // directory with per-category CSV files
	ImagesDir     string `mapstructure:"images_dir"`     // local directory relative images resolve against
	ImagePrefix   string `mapstructure:"image_prefix"`   // prefix added to relative image paths
	StrictCorrect bool   `mapstructure:"strict_correct"` // reject rows with an invalid correct column instead of defaulting to option A
}

// Quiz holds session behaviour settings.
type Quiz struct {
	AutoAdvanceDelay time.Duration `mapstructure:"auto_advance_delay"` // delay before moving on after a correct answer, 0 disables
}

// HTTP holds JSON API settings.
type HTTP struct {
	Addr           string   `mapstructure:"addr"`            // listen address, empty disables the API
	AllowedOrigins []string `mapstructure:"allowed_origins"` // CORS origins
}

// Results selects the result history backend.
type Results struct {
	Driver     string `mapstructure:"driver"`      // memory, postgres or sqlite
	SQLitePath string `mapstructure:"sqlite_path"` // database file for the sqlite driver
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// A missing .env is fine, real environment variables still apply.
	_ = godotenv.Load()

	return load("./config")
}

func load(configPath string) (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "")
	v.SetDefault("access_password", "quiz2024")
	v.SetDefault("questions.source", "questions.csv")
	v.SetDefault("questions.base_url", "")
	v.SetDefault("questions.per_category", false)
	v.SetDefault("questions.categories_dir", "categories")
	v.SetDefault("questions.images_dir", ".")
	v.SetDefault("questions.image_prefix", "./")
	v.SetDefault("questions.strict_correct", false)
	v.SetDefault("quiz.auto_advance_delay", "1500ms")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("results.driver", DriverMemory)
	v.SetDefault("results.sqlite_path", "quiz-results.db")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_conn_lifetime", "30s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("access_password", "QUIZ_ACCESS_PASSWORD")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramAPIToken == "" && c.HTTP.Addr == "" {
		return ErrNoDelivery
	}

	switch c.Results.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("results driver %q: %w", c.Results.Driver, ErrMissingEnvironmentVariables)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownResultsDriver, c.Results.Driver)
	}

	return nil
}
