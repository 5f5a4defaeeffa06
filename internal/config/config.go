package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Kafka          KafkaConfig          `mapstructure:"kafka"`
	Auth           AuthConfig           `mapstructure:"auth"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Artifacts      ArtifactConfig       `mapstructure:"artifacts"`
	TMDB           TMDBConfig           `mapstructure:"tmdb"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Watchlist      WatchlistConfig      `mapstructure:"watchlist"`
	Security       SecurityConfig       `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig splits session traffic (hot) from cached enrichment (warm).
type RedisConfig struct {
	Hot  RedisInstanceConfig `mapstructure:"hot"`
	Warm RedisInstanceConfig `mapstructure:"warm"`
}

type RedisInstanceConfig struct {
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		WatchlistEvents string `mapstructure:"watchlist_events"`
	} `mapstructure:"topics"`
}

type AuthConfig struct {
	JWTSecret  string          `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration   `mapstructure:"token_ttl"`
	BcryptCost int             `mapstructure:"bcrypt_cost"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Default int           `mapstructure:"default"`
	Guest   int           `mapstructure:"guest"`
	Window  time.Duration `mapstructure:"window"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ArtifactConfig struct {
	CatalogPath           string `mapstructure:"catalog_path"`
	SimilarityPath        string `mapstructure:"similarity_path"`
	RejectDuplicateTitles bool   `mapstructure:"reject_duplicate_titles"`
}

type TMDBConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	ImageBaseURL      string        `mapstructure:"image_base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	BackoffFactor     time.Duration `mapstructure:"backoff_factor"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	BreakerThreshold  uint32        `mapstructure:"breaker_threshold"`
	BreakerTimeout    time.Duration `mapstructure:"breaker_timeout"`
}

type RecommendationConfig struct {
	DefaultCount     int           `mapstructure:"default_count"`
	MaxCount         int           `mapstructure:"max_count"`
	ReviewLimit      int           `mapstructure:"review_limit"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	PlaceholderImage string        `mapstructure:"placeholder_image"`
}

type WatchlistConfig struct {
	Backend  string `mapstructure:"backend"` // postgres or bolt
	BoltPath string `mapstructure:"bolt_path"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration into v. Split out so tests can use an isolated
// viper instance.
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	setDefaults(v)

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// The API key is commonly exported without the section prefix.
	_ = v.BindEnv("tmdb.api_key", "TMDB_API_KEY", "TMDB_APIKEY")

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "development")

	// Database defaults
	v.SetDefault("database.max_connections", 25)
	v.SetDefault("database.max_idle_time", "15m")
	v.SetDefault("database.max_lifetime", "1h")
	v.SetDefault("database.connect_timeout", "10s")

	// Redis defaults
	v.SetDefault("redis.hot.url", "localhost:6379")
	v.SetDefault("redis.hot.max_retries", 3)
	v.SetDefault("redis.hot.pool_size", 10)
	v.SetDefault("redis.hot.timeout", "5s")
	v.SetDefault("redis.warm.url", "localhost:6379")
	v.SetDefault("redis.warm.max_retries", 3)
	v.SetDefault("redis.warm.pool_size", 5)
	v.SetDefault("redis.warm.timeout", "10s")

	// Kafka defaults
	v.SetDefault("kafka.topics.watchlist_events", "watchlist-events")

	// Auth defaults
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.rate_limit.default", 1000)
	v.SetDefault("auth.rate_limit.guest", 200)
	v.SetDefault("auth.rate_limit.window", "1h")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Artifact defaults
	v.SetDefault("artifacts.catalog_path", "./data/movie_list.json")
	v.SetDefault("artifacts.similarity_path", "./data/similarity.bin")
	v.SetDefault("artifacts.reject_duplicate_titles", false)

	// TMDB defaults
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p/w500/")
	v.SetDefault("tmdb.timeout", "10s")
	v.SetDefault("tmdb.max_retries", 3)
	v.SetDefault("tmdb.backoff_factor", "1s")
	v.SetDefault("tmdb.requests_per_second", 5.0)
	v.SetDefault("tmdb.burst", 5)
	v.SetDefault("tmdb.breaker_threshold", 5)
	v.SetDefault("tmdb.breaker_timeout", "30s")

	// Recommendation defaults
	v.SetDefault("recommendation.default_count", 5)
	v.SetDefault("recommendation.max_count", 50)
	v.SetDefault("recommendation.review_limit", 5)
	v.SetDefault("recommendation.cache_ttl", "1h")
	v.SetDefault("recommendation.placeholder_image", "https://via.placeholder.com/150x225?text=No+Poster")

	// Watchlist defaults
	v.SetDefault("watchlist.backend", "postgres")
	v.SetDefault("watchlist.bolt_path", "./data/watchlist.db")

	// Security defaults
	v.SetDefault("security.cors.allowed_origins", []string{"*"})
	v.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("security.cors.allowed_headers", []string{"*"})
}
