package config

import (
	"fmt"
	"log"
	"os"
	"path"
	"sync"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/types"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type StripeConfig struct {
	PublishableKey string `env:"STRIPE_PUBLISHABLE_KEY"`
	SecretKey      string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret  string `env:"STRIPE_WEBHOOK_SECRET"`
}

type PaymentsConfig struct {
	BackendURL string `env:"PAYMENT_BACKEND_URL"`
	Currency   string `env:"CURRENCY" env-default:"usd"`
}

type FirebaseConfig struct {
	ProjectID  string `env:"FIREBASE_PROJECT_ID"`
	SecretsDir string `env:"SECRETS_DIR" env-default:"/secrets"`
}

type DatabaseConfig struct {
	Host     string `env:"DATABASE_HOST" env-default:"localhost"`
	Port     string `env:"DATABASE_PORT" env-default:"5432"`
	User     string `env:"DATABASE_USER" env-default:"postgres"`
	Password string `env:"DATABASE_PASSWORD"`
	Name     string `env:"DATABASE_NAME" env-default:"techwave"`
	SSLMode  string `env:"DATABASE_SSLMODE" env-default:"disable"`
	TimeZone string `env:"DATABASE_TIMEZONE" env-default:"UTC"`
}

type EventsConfig struct {
	Backend     string `env:"EVENTS_BACKEND" env-default:"log"`
	Queue       string `env:"EVENTS_QUEUE" env-default:"TicketPurchaseUpdates"`
	KafkaBroker string `env:"KAFKA_BROKER"`
}

type AWSConfig struct {
	SecretsID       string `env:"AWS_SECRETS_ID"`
	S3SecretsBucket string `env:"S3_SECRETS_BUCKET"`
}

type Config struct {
	Env             string        `env:"API_ENV" env-default:"local"`
	Port            string        `env:"PORT" env-default:"8080"`
	MaintenanceMode bool          `env:"MAINTENANCE_MODE" env-default:"false"`
	AppHost         string        `env:"APP_HOST" env-default:"http://localhost:5173"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:","`
	LogDir          string        `env:"LOG_DIR" env-default:"logs"`
	RemoteStore     string        `env:"REMOTE_STORE" env-default:"firestore"`
	RedisHost       string        `env:"REDIS_HOST"`
	ProbeInterval   time.Duration `env:"PROBE_INTERVAL" env-default:"30s"`
	PassSecret      string        `env:"TICKET_PASS_SECRET"`
	PassTTL         time.Duration `env:"TICKET_PASS_TTL" env-default:"720h"`

	Stripe   StripeConfig
	Payments PaymentsConfig
	Firebase FirebaseConfig
	Database DatabaseConfig
	Events   EventsConfig
	AWS      AWSConfig
}

const (
	RemoteFirestore = "firestore"
	RemotePostgres  = "postgres"
	RemoteNone      = "none"

	CredentialsFile = "admin-sdk-credentials.json"
)

var (
	cfg *Config
	mu  sync.Mutex
)

// Load reads the environment into a Config. A .env file in the working
// directory is loaded first when API_ENV is local.
func Load() (*Config, error) {
	if os.Getenv("API_ENV") == "" || os.Getenv("API_ENV") == string(types.Local) {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil && !os.IsNotExist(err) {
			log.Printf("[Config] Could not load .env: %s\n", err.Error())
		}
	}
	var c Config
	if err := cleanenv.ReadEnv(&c); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return &c, nil
}

// Get returns the process configuration, loading it on first use.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()
	if cfg != nil {
		return cfg
	}
	c, err := Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %s\n", err.Error())
	}
	cfg = c
	return cfg
}

// Set replaces the process configuration.
func Set(c *Config) {
	mu.Lock()
	defer mu.Unlock()
	cfg = c
}

func (c *Config) DSN() string {
	d := c.Database
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone)
}

func (c *Config) IsProd() bool {
	return c.Env == string(types.Production)
}

func (c *Config) CredentialsPath() string {
	return path.Join(c.Firebase.SecretsDir, CredentialsFile)
}
