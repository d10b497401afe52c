package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	MapIt    MapItConfig
	Log      LogConfig
	Watcher  WatcherConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// DatasetConfig selects where boundary records are loaded from.
type DatasetConfig struct {
	Source string // geojson | postgres
	Path   string // boundary file for the geojson source, also watched for reloads
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig controls the result cache. Remote-sourced entries expire
// sooner than local ones: the local dataset is static for the process
// lifetime while remote answers may reflect externally-changing data.
type CacheConfig struct {
	Backend   string // memory | redis
	Capacity  int
	LocalTTL  time.Duration
	RemoteTTL time.Duration
}

type MapItConfig struct {
	BaseURL        string
	RequestTimeout int // seconds
	RetryBackoff   time.Duration
}

type LogConfig struct {
	Level string
}

type WatcherConfig struct {
	Enabled  bool
	Debounce time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Dataset: DatasetConfig{
			Source: viper.GetString("DATASET_SOURCE"),
			Path:   viper.GetString("DATASET_PATH"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Backend:   viper.GetString("CACHE_BACKEND"),
			Capacity:  viper.GetInt("CACHE_CAPACITY"),
			LocalTTL:  time.Duration(viper.GetInt("CACHE_LOCAL_TTL")) * time.Second,
			RemoteTTL: time.Duration(viper.GetInt("CACHE_REMOTE_TTL")) * time.Second,
		},
		MapIt: MapItConfig{
			BaseURL:        viper.GetString("MAPIT_BASE_URL"),
			RequestTimeout: viper.GetInt("MAPIT_REQUEST_TIMEOUT"),
			RetryBackoff:   time.Duration(viper.GetInt("MAPIT_RETRY_BACKOFF")) * time.Millisecond,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Watcher: WatcherConfig{
			Enabled:  viper.GetBool("WATCHER_ENABLED"),
			Debounce: time.Duration(viper.GetInt("WATCHER_DEBOUNCE")) * time.Millisecond,
		},
	}

	// Set default values if not provided
	if cfg.Dataset.Source == "" {
		cfg.Dataset.Source = "geojson"
	}
	if cfg.Dataset.Path == "" {
		cfg.Dataset.Path = "./data/za_municipal_boundaries.json"
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 10000
	}
	if cfg.Cache.LocalTTL == 0 {
		cfg.Cache.LocalTTL = 24 * time.Hour
	}
	if cfg.Cache.RemoteTTL == 0 {
		cfg.Cache.RemoteTTL = 15 * time.Minute
	}
	if cfg.MapIt.BaseURL == "" {
		cfg.MapIt.BaseURL = "https://mapit.openup.org.za"
	}
	if cfg.MapIt.RequestTimeout == 0 {
		cfg.MapIt.RequestTimeout = 3
	}
	if cfg.MapIt.RetryBackoff == 0 {
		cfg.MapIt.RetryBackoff = 200 * time.Millisecond
	}
	if cfg.Watcher.Debounce == 0 {
		cfg.Watcher.Debounce = 500 * time.Millisecond
	}

	return cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
