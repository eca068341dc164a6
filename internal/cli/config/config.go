// Package config loads querykit settings from querykit.yml and the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conduit-lang/querykit/internal/orm/crud"
	"github.com/conduit-lang/querykit/internal/orm/query"
	"github.com/conduit-lang/querykit/internal/orm/schema"
	"github.com/conduit-lang/querykit/internal/web/cache"
)

// EnvPrefix prefixes every environment override, e.g. QUERYKIT_SERVER_PORT
const EnvPrefix = "QUERYKIT"

// Config represents the querykit configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Query    QuerySettings  `mapstructure:"query"`
	Models   ModelsConfig   `mapstructure:"models"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port        int      `mapstructure:"port"`
	Host        string   `mapstructure:"host"`
	APIPrefix   string   `mapstructure:"api_prefix"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// QuerySettings holds the compiler scalars
type QuerySettings struct {
	Schema       string              `mapstructure:"schema"`
	PageSize     int                 `mapstructure:"page_size"`
	LOVSize      int                 `mapstructure:"lov_size"`
	CSVPageSize  int                 `mapstructure:"csv_page_size"`
	CSVHeader    string              `mapstructure:"csv_header"`
	SystemFields []SystemFieldConfig `mapstructure:"system_fields"`
}

// SystemFieldConfig names a bookkeeping column and its field type
type SystemFieldConfig struct {
	Column string `mapstructure:"column"`
	Type   string `mapstructure:"type"`
}

// ModelsConfig locates the entity model files
type ModelsConfig struct {
	Dir string `mapstructure:"dir"`
}

// CacheConfig represents lookup cache configuration
type CacheConfig struct {
	Backend   string        `mapstructure:"backend"`
	RedisAddr string        `mapstructure:"redis_addr"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	q := query.DefaultConfig()

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.api_prefix", "/api/v1")
	v.SetDefault("server.cors_origins", []string{})

	v.SetDefault("query.schema", q.Schema)
	v.SetDefault("query.page_size", q.PageSize)
	v.SetDefault("query.lov_size", q.LOVSize)
	v.SetDefault("query.csv_page_size", q.CSVPageSize)
	v.SetDefault("query.csv_header", q.CSVHeader)

	v.SetDefault("models.dir", "models")

	v.SetDefault("cache.backend", cache.BackendMemory)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads querykit.yml (or .yaml) from the working directory, or the file
// at path when one is given, and applies environment overrides
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("querykit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if p := cfg.Server.APIPrefix; p != "" {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("server.api_prefix must start with '/', got: %s", p)
		}
		if strings.HasSuffix(p, "/") {
			return fmt.Errorf("server.api_prefix must not end with '/', got: %s", p)
		}
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", cfg.Server.Port)
	}

	q := cfg.Query
	if q.PageSize <= 0 || q.LOVSize <= 0 || q.CSVPageSize <= 0 {
		return fmt.Errorf("query page sizes must be positive")
	}
	if q.CSVHeader != query.HeaderLabel && q.CSVHeader != query.HeaderID {
		return fmt.Errorf("query.csv_header must be %q or %q, got: %s", query.HeaderLabel, query.HeaderID, q.CSVHeader)
	}
	if !schema.IsSafeIdentifier(q.Schema) {
		return fmt.Errorf("query.schema is not a valid identifier: %s", q.Schema)
	}
	for _, sf := range q.SystemFields {
		if !schema.IsSafeIdentifier(sf.Column) {
			return fmt.Errorf("query.system_fields: invalid column %q", sf.Column)
		}
		if _, err := schema.ParseFieldType(sf.Type); err != nil {
			return fmt.Errorf("query.system_fields: column %s: %w", sf.Column, err)
		}
	}

	switch cfg.Cache.Backend {
	case cache.BackendMemory, cache.BackendRedis, cache.BackendNone:
	default:
		return fmt.Errorf("cache.backend must be memory, redis or none, got: %s", cfg.Cache.Backend)
	}
	return nil
}

// QueryConfig returns the immutable compiler configuration
func (c *Config) QueryConfig() query.Config {
	fields := make([]query.SystemField, 0, len(c.Query.SystemFields))
	for _, sf := range c.Query.SystemFields {
		// types were checked by validateConfig
		t, _ := schema.ParseFieldType(sf.Type)
		fields = append(fields, query.SystemField{Column: sf.Column, Type: t})
	}
	return query.Config{
		Schema:       c.Query.Schema,
		PageSize:     c.Query.PageSize,
		LOVSize:      c.Query.LOVSize,
		CSVPageSize:  c.Query.CSVPageSize,
		CSVHeader:    c.Query.CSVHeader,
		SystemFields: fields,
	}
}

// CacheSettings returns the lookup cache backend configuration
func (c *Config) CacheSettings() cache.Config {
	cc := cache.DefaultConfig()
	cc.RedisAddr = c.Cache.RedisAddr
	if c.Cache.TTL > 0 {
		cc.DefaultTTL = c.Cache.TTL
	}
	return cc
}

// PoolOptions returns the database pool sizing
func (c *Config) PoolOptions() crud.PoolOptions {
	return crud.PoolOptions{
		MaxOpenConns:    c.Database.MaxOpenConns,
		MaxIdleConns:    c.Database.MaxIdleConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
	}
}

// Address returns the server listen address
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
