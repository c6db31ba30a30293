package config

import (
	"time"

	pkgconfig "github.com/weiawesome/wes-furniture/pkg/config"
	"github.com/weiawesome/wes-furniture/pkg/database"
	"github.com/weiawesome/wes-furniture/pkg/storage"
)

type Config struct {
	Server        ServerConfig
	Database      database.Config
	Redis         RedisConfig
	Cache         CacheConfig
	Search        SearchConfig
	Elasticsearch ElasticsearchConfig
	Storage       StorageConfig
	Admin         AdminConfig
	Log           LogConfig
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RedisConfig configures the cache store. An empty URL disables caching.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	TLSInsecure  bool          `mapstructure:"tls_insecure"`
}

type CacheConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	ScanCount    int64         `mapstructure:"scan_count"`
}

type SearchConfig struct {
	Backend        string `mapstructure:"backend"` // database, elasticsearch
	FetchLimit     int    `mapstructure:"fetch_limit"`
	ResultLimit    int    `mapstructure:"result_limit"`
	MinQueryLength int    `mapstructure:"min_query_length"`
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	IndexItems string   `mapstructure:"index_items"`
	IndexSets  string   `mapstructure:"index_sets"`
}

type StorageConfig struct {
	storage.Config `mapstructure:",squash"`
	MaxImageBytes  int64 `mapstructure:"max_image_bytes"`
	ThumbnailSize  int   `mapstructure:"thumbnail_size"`
	JpegQuality    int   `mapstructure:"jpeg_quality"`
}

type AdminConfig struct {
	RoutePrefix string `mapstructure:"route_prefix"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "furniture")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.time_zone", "UTC")
	v.SetDefault("database.file_path", "./data/furniture.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.dial_timeout", "2s")
	v.SetDefault("redis.read_timeout", "1s")
	v.SetDefault("redis.write_timeout", "1s")
	v.SetDefault("redis.tls_insecure", false)
	v.SetDefault("cache.ttl", "300s")
	v.SetDefault("cache.write_timeout", "2s")
	v.SetDefault("cache.fetch_timeout", "10s")
	v.SetDefault("cache.scan_count", 100)
	v.SetDefault("search.backend", "database")
	v.SetDefault("search.fetch_limit", 30)
	v.SetDefault("search.result_limit", 20)
	v.SetDefault("search.min_query_length", 1)
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.index_items", "furniture-items")
	v.SetDefault("elasticsearch.index_sets", "furniture-sets")
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local.base_path", "./data/uploads")
	v.SetDefault("storage.local.url_prefix", "/uploads")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.max_image_bytes", 1<<20)
	v.SetDefault("storage.thumbnail_size", 480)
	v.SetDefault("storage.jpeg_quality", 85)
	v.SetDefault("admin.route_prefix", "admin")
	v.SetDefault("log.level", "info")

	err = pkgconfig.BindEnvs(v, map[string]string{
		"server.port":                  "PORT",
		"database.driver":              "DB_DRIVER",
		"database.host":                "DB_HOST",
		"database.port":                "DB_PORT",
		"database.user":                "DB_USER",
		"database.password":            "DB_PASSWORD",
		"database.dbname":              "DB_NAME",
		"database.sslmode":             "DB_SSLMODE",
		"database.file_path":           "DB_FILE_PATH",
		"redis.url":                    "REDIS_URL",
		"redis.tls_insecure":           "REDIS_TLS_INSECURE",
		"cache.ttl":                    "CACHE_TTL",
		"search.backend":               "SEARCH_BACKEND",
		"elasticsearch.addresses":      "ES_ADDRESSES",
		"storage.type":                 "STORAGE_TYPE",
		"storage.s3.endpoint":          "S3_ENDPOINT",
		"storage.s3.bucket":            "S3_BUCKET",
		"storage.s3.access_key_id":     "S3_ACCESS_KEY_ID",
		"storage.s3.secret_access_key": "S3_SECRET_ACCESS_KEY",
		"storage.s3.public_url":        "S3_PUBLIC_URL",
		"admin.route_prefix":           "ADMIN_ROUTE",
		"log.level":                    "LOG_LEVEL",
	})
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
