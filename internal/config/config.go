package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Recette"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
		WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"2m"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"recette"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
		MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	}

	Auth struct {
		Secret   string        `envconfig:"AUTH_SECRET" required:"true"`
		TokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"12h"`
		Issuer   string        `envconfig:"AUTH_ISSUER" default:"recette"`
		// The admin account is created at startup when both are set.
		AdminUsername string `envconfig:"AUTH_ADMIN_USERNAME"`
		AdminPassword string `envconfig:"AUTH_ADMIN_PASSWORD"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Kafka struct {
		// Publishing is disabled when no broker is set.
		Brokers []string `envconfig:"KAFKA_BROKERS"`
		Topic   string   `envconfig:"KAFKA_TOPIC" default:"recette.events"`
	}

	Storage struct {
		Provider        string `envconfig:"STORAGE_PROVIDER" default:"local"`
		LocalDir        string `envconfig:"STORAGE_LOCAL_DIR" default:"./uploads"`
		BaseURL         string `envconfig:"STORAGE_BASE_URL" default:"/uploads"`
		Bucket          string `envconfig:"STORAGE_GCS_BUCKET"`
		CredentialsFile string `envconfig:"STORAGE_GCS_CREDENTIALS"`
		MaxPhotoWidth   int    `envconfig:"STORAGE_MAX_PHOTO_WIDTH" default:"1600"`
	}

	Payroll struct {
		TablePrefix string `envconfig:"PAYROLL_TABLE_PREFIX" default:"payroll"`
	}

	Import struct {
		// Labels a statement credit must contain to count as a cash deposit.
		// Empty imports every credit.
		DepositKeywords []string `envconfig:"IMPORT_DEPOSIT_KEYWORDS" default:"versement,vers.,dépôt,depot"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
