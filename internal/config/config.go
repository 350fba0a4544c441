package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig `mapstructure:"log"`
	Database  DatabaseConfig
	Storage   StorageConfig
	Material  MaterialConfig `mapstructure:"material"`
	Cache     CacheConfig    `mapstructure:"cache"`
	Tracing   TracingConfig  `mapstructure:"tracing"`
	Redis     RedisConfig
	AI        AIConfig
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 配置文件所在目录，供热加载使用
	ConfigDir string `mapstructure:"-"`
}

// LogConfig File 为空时只输出到控制台
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig 按 IP 限流；AI 生成接口单独使用更严格的额度
type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	AIMaxRequests int `mapstructure:"ai_max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// AIConfig 选择模型提供方以及各提供方的凭据
type AIConfig struct {
	Provider string `mapstructure:"provider"`
	// 同一关卡并发生成时是否合并请求，默认关闭
	DedupeGeneration bool          `mapstructure:"dedupe_generation"`
	Timeout          time.Duration `mapstructure:"timeout"`

	OpenAI    ProviderConfig `mapstructure:"openai"`
	Anthropic ProviderConfig `mapstructure:"anthropic"`
	Azure     AzureConfig    `mapstructure:"azure"`
	Spark     ProviderConfig `mapstructure:"spark"`
	Generic   ProviderConfig `mapstructure:"generic"`
	Gemini    ProviderConfig `mapstructure:"gemini"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type AzureConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Endpoint   string `mapstructure:"endpoint"`
	Deployment string `mapstructure:"deployment"`
	APIVersion string `mapstructure:"api_version"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// DatabaseConfig Driver 取值 sqlite / mysql / postgres
type DatabaseConfig struct {
	Driver    string
	Path      string
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool   `mapstructure:"parse_time"`
	SSLMode   string `mapstructure:"ssl_mode"`
	LogLevel  string `mapstructure:"log_level"`
}

// StorageConfig Backend 取值 memory / database
type StorageConfig struct {
	Backend    string `mapstructure:"backend"`
	SeedSample bool   `mapstructure:"seed_sample"`
}

// MaterialConfig 课程原始资料的存放位置：store（与业务数据同库）/ local / minio
type MaterialConfig struct {
	Backend       string `mapstructure:"backend"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

// CacheConfig TTL 为 0 表示关卡内容永不过期
type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	PruneInterval time.Duration `mapstructure:"prune_interval"`
}

type TracingConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"`
	SampleRatio       float64 `mapstructure:"sample_ratio"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration `mapstructure:"ttl"`
}

func (c *Config) IsDebug() bool {
	return c.Server.Mode == "debug"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/openlearner.db")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("storage.backend", "database")
	v.SetDefault("storage.seed_sample", true)

	v.SetDefault("material.backend", "store")
	v.SetDefault("material.local_path", "./data/materials")
	v.SetDefault("material.minio_bucket", "course-materials")

	v.SetDefault("cache.ttl", 0)
	v.SetDefault("cache.prune_interval", time.Hour)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.openai.model", "gpt-4-turbo-preview")
	v.SetDefault("ai.anthropic.base_url", "https://api.anthropic.com")
	v.SetDefault("ai.anthropic.model", "claude-3-sonnet-20240229")
	v.SetDefault("ai.azure.api_version", "2024-02-15-preview")
	v.SetDefault("ai.spark.base_url", "https://maas-api.cn-huabei-1.xf-yun.com/v2")
	v.SetDefault("ai.spark.model", "xopkimik25")
	v.SetDefault("ai.generic.model", "gpt-3.5-turbo")
	v.SetDefault("ai.gemini.model", "gemini-2.0-flash")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.ai_max_requests", 30)
	v.SetDefault("rate_limit.window_minutes", 1)

	v.SetDefault("tracing.sample_ratio", 1.0)
}

func bindEnv(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	v.BindEnv("log.file", "LOG_FILE")

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.path", "DATABASE_PATH")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Storage
	v.BindEnv("storage.backend", "STORAGE_BACKEND")
	v.BindEnv("material.backend", "MATERIAL_BACKEND")
	v.BindEnv("material.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("material.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("material.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("material.minio_bucket", "MINIO_BUCKET")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// AI
	v.BindEnv("ai.provider", "AI_PROVIDER")
	v.BindEnv("ai.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("ai.openai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("ai.openai.model", "OPENAI_MODEL")
	v.BindEnv("ai.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("ai.anthropic.base_url", "ANTHROPIC_BASE_URL")
	v.BindEnv("ai.anthropic.model", "ANTHROPIC_MODEL")
	v.BindEnv("ai.azure.api_key", "AZURE_OPENAI_API_KEY")
	v.BindEnv("ai.azure.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("ai.azure.deployment", "AZURE_OPENAI_DEPLOYMENT_NAME")
	v.BindEnv("ai.spark.api_key", "SPARK_API_KEY")
	v.BindEnv("ai.spark.base_url", "SPARK_BASE_URL")
	v.BindEnv("ai.spark.model", "SPARK_MODEL")
	v.BindEnv("ai.generic.api_key", "GENERIC_API_KEY")
	v.BindEnv("ai.generic.base_url", "GENERIC_BASE_URL")
	v.BindEnv("ai.generic.model", "GENERIC_MODEL")
	v.BindEnv("ai.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("ai.gemini.model", "GEMINI_MODEL")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")
}

// LoadConfig 依次读取 .env、config.yaml 与环境变量，配置文件缺失时只使用默认值与环境变量
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("OPENLEARNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigDir = path

	// 兼容旧的 USE_MEMORY_DB 开关
	if strings.EqualFold(os.Getenv("USE_MEMORY_DB"), "true") {
		cfg.Storage.Backend = "memory"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Material.Backend == "local" {
		if _, err := os.Stat(cfg.Material.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Material.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "database":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Material.Backend {
	case "store", "local", "minio":
	default:
		return fmt.Errorf("unknown material backend %q", c.Material.Backend)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	return nil
}
