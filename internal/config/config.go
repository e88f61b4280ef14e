package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hack-adventure/pkg/utils"
)

// Config holds the application configuration.
type Config struct {
	Env         string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	ServerPort  string `envconfig:"SERVER_PORT" default:"8080"`

	DBHost        string        `envconfig:"DB_HOST" required:"true"`
	DBPort        string        `envconfig:"DB_PORT" default:"5432"`
	DBUser        string        `envconfig:"DB_USER" required:"true"`
	DBName        string        `envconfig:"DB_NAME" required:"true"`
	DBSSLMode     string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns    int           `envconfig:"DB_MAX_CONNS" default:"10"`
	DBIdleTimeout time.Duration `envconfig:"DB_IDLE_TIMEOUT" default:"5m"`
	// Секрет, без envconfig тега.
	DBPassword string `ignored:"true"`

	// Пустой адрес отключает кеш таблицы лидеров.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPassword string `ignored:"true"`

	// RabbitMQURL читается из секрета rabbitmq_url; без него события не публикуются.
	RabbitMQURL   string `ignored:"true"`
	ProgressQueue string `envconfig:"PROGRESS_QUEUE" default:"player_progress_events"`

	// ContentDir переопределяет встроенные миссии и ASCII-арт.
	ContentDir string `envconfig:"CONTENT_DIR"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	SecretsDir string `envconfig:"SECRETS_DIR" default:"/run/secrets"`
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig loads configuration from an optional .env file, environment
// variables and secret files.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
			} else {
				log.Printf("Loaded configuration from %s", envFilePath)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	var err error
	cfg.DBPassword, err = utils.ReadSecretFrom(cfg.SecretsDir, "db_password")
	if err != nil {
		return nil, err
	}

	cfg.RedisPassword, err = optionalSecret(cfg.SecretsDir, "redis_password")
	if err != nil {
		return nil, err
	}
	cfg.RabbitMQURL, err = optionalSecret(cfg.SecretsDir, "rabbitmq_url")
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// optionalSecret возвращает пустую строку, если файла секрета нет.
func optionalSecret(dir, name string) (string, error) {
	value, err := utils.ReadSecretFrom(dir, name)
	if errors.Is(err, utils.ErrSecretNotFound) {
		log.Printf("Optional secret '%s' not found, leaving empty", name)
		return "", nil
	}
	return value, err
}
