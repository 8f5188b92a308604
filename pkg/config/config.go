package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the application configuration shared by the indexer and the API server
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Ethereum   EthereumConfig   `mapstructure:"ethereum"`
	Indexer    IndexerConfig    `mapstructure:"indexer"`
	API        APIConfig        `mapstructure:"api"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains database connection and pool settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database" validate:"required"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// EthereumConfig contains chain RPC settings used by the log fetcher.
// RPCURL is only required by the indexer; the query API never dials the chain.
type EthereumConfig struct {
	RPCURL               string        `mapstructure:"rpc_url" validate:"omitempty,url"`
	TokenContract        string        `mapstructure:"token_contract" validate:"omitempty,eth_addr"`
	RequestTimeout       time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	MaxRetries           uint64        `mapstructure:"max_retries"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval" validate:"gt=0"`
	RetryMaxInterval     time.Duration `mapstructure:"retry_max_interval" validate:"gtefield=RetryInitialInterval"`
	RequestsPerSecond    float64       `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst                int           `mapstructure:"burst" validate:"min=1"`
}

// IndexerConfig contains ingestion settings
type IndexerConfig struct {
	// LookbackBlocks is the size of the window rescanned back from the chain head on every run.
	LookbackBlocks  uint64        `mapstructure:"lookback_blocks"`
	ChunkSize       uint64        `mapstructure:"chunk_size" validate:"min=1"`
	InsertTimeout   time.Duration `mapstructure:"insert_timeout" validate:"gt=0"`
	PollingInterval time.Duration `mapstructure:"polling_interval" validate:"gt=0"`
}

// APIConfig contains query API settings
type APIConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size" validate:"min=1"`
	MaxPageSize     int `mapstructure:"max_page_size" validate:"gtefield=DefaultPageSize"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

// Load loads configuration from file and environment variables.
// Environment variables override file values, e.g. DATABASE_PASSWORD or ETHEREUM_RPC_URL.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "transfer_indexer")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")

	// Ethereum defaults
	v.SetDefault("ethereum.request_timeout", "30s")
	v.SetDefault("ethereum.max_retries", 5)
	v.SetDefault("ethereum.retry_initial_interval", "500ms")
	v.SetDefault("ethereum.retry_max_interval", "10s")
	v.SetDefault("ethereum.requests_per_second", 5)
	v.SetDefault("ethereum.burst", 1)

	// Indexer defaults
	v.SetDefault("indexer.lookback_blocks", 2000)
	v.SetDefault("indexer.chunk_size", 400)
	v.SetDefault("indexer.insert_timeout", "10s")
	v.SetDefault("indexer.polling_interval", "12s")

	// API defaults
	v.SetDefault("api.default_page_size", 20)
	v.SetDefault("api.max_page_size", 1000)

	// Monitoring defaults
	v.SetDefault("monitoring.enabled", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

func validate(config *Config) error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(config)
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
