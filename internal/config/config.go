// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	// EnvLocal — окружение локальной разработки.
	EnvLocal = "local"
	// EnvProduction — боевое окружение; включает Secure-cookie и JSON-логи.
	EnvProduction = "production"
)

const (
	// DriverMongo — документное хранилище пользователей.
	DriverMongo = "mongo"
	// DriverPostgres — реляционное хранилище пользователей.
	DriverPostgres = "postgres"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	GRPCServer      `yaml:"grpc_server"`
	JWTToken        `yaml:"jwttoken"`
	Storage         `yaml:"storage"`
	RedisConnection `yaml:"redis_connection"`
	RabbitMQ        `yaml:"rabbitmq"`
	CORS            `yaml:"cors"`
	RateLimit       `yaml:"rate_limit"`
	SMTP            `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// GRPCServer структура для настройки gRPC health-сервера
type GRPCServer struct {
	AddressGRPC         string        `yaml:"addressgrpc" env:"GRPC_ADDRESS" env-default:":9090"`
	HealthCheckInterval time.Duration `yaml:"health_check_interval" env-default:"15s"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string `yaml:"jwt_secret_key" env:"JWT_SECRET" env-required:"true"`
}

// Storage структура для выбора и настройки хранилища пользователей
type Storage struct {
	Driver                   string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"mongo"`
	MongoURI                 string `yaml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase            string `yaml:"mongo_database" env:"MONGO_DATABASE" env-default:"blogapp"`
	PostgresConnectionString string `yaml:"postgres_connection_string" env:"POSTGRES_DSN"`
	MigrationsPath           string `yaml:"migrations_path" env-default:"./migrations"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кэш профилей.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
	ProfileTTL   time.Duration `yaml:"profile_ttl" env-default:"5m"`
}

// RabbitMQ структура для публикации событий. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env-default:"auth"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
	Workers    int           `yaml:"consumer_workers" env-default:"10"`
}

// CORS структура со списком origin браузерного клиента
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
}

// RateLimit структура для ограничения частоты запросов к /api/auth на один IP
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// SMTP структура для отправки приветственных писем
type SMTP struct {
	SMTPHost       string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort       string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser       string `yaml:"user" env:"SMTP_USER"`
	SMTPPass       string `yaml:"password" env:"SMTP_PASSWORD"`
	SMTPFrom       string `yaml:"from" env:"SMTP_FROM" env-default:"no-reply@blogapp.local"`
	SMTPRequireTLS bool   `yaml:"require_tls" env:"SMTP_REQUIRE_TLS" env-default:"true"`
}

// IsProduction сообщает, запущено ли приложение в production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load читает .env (если он есть), затем YAML-файл по пути path
// с переопределением из переменных окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("storage.mongo_uri is required for mongo driver")
		}
	case DriverPostgres:
		if c.PostgresConnectionString == "" {
			return errors.New("storage.postgres_connection_string is required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Driver)
	}
	return nil
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"GRPCServer:\n"+
			"  Address: %s\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  MongoDatabase: %s\n"+
			"  MigrationsPath: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  Password: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n"+
			"  Exchange: %s\n"+
			"SMTP:\n"+
			"  Host: %s\n"+
			"  Password: %s\n"+
			"JWTToken:\n"+
			"  JWTSecretKey: %s\n",
		c.Env,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressGRPC,
		c.Driver,
		c.MongoDatabase,
		c.MigrationsPath,
		c.AddressRedis,
		mask(c.Password),
		c.DB,
		c.URL != "",
		c.Exchange,
		c.SMTPHost,
		mask(c.SMTPPass),
		mask(c.JWTSecretKey),
	)
}
