package config

import "time"

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds application configuration.
type Config struct {
	Port             int           `env:"PORT" envDefault:"3000"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	CORSOrigins      []string      `env:"CORS_ORIGINS" envSeparator:","`
	TopProductsLimit int           `env:"TOP_PRODUCTS_LIMIT" envDefault:"4"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	StorageDriver  string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`

	Mongo    Mongo
	Lookup   Lookup
	GenAI    GenAI
	RabbitMQ RabbitMQ
}

// IsProduction reports whether application runs in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Mongo holds MongoDB configuration.
type Mongo struct {
	URI      string `env:"MONGODB_URI"`
	Database string `env:"MONGODB_DATABASE" envDefault:"product-rater"`
}

// Lookup holds product lookup provider configuration.
type Lookup struct {
	Provider     string        `env:"LOOKUP_PROVIDER" envDefault:"upcdatabase"`
	APIKey       string        `env:"UPC_API_KEY"`
	BaseURL      string        `env:"LOOKUP_BASE_URL"`
	RateInterval time.Duration `env:"LOOKUP_RATE_INTERVAL" envDefault:"500ms"`
}

// GenAI holds generation service configuration.
type GenAI struct {
	APIKey       string        `env:"GOOGLE_API_KEY"`
	Model        string        `env:"GENAI_MODEL" envDefault:"gemini-2.0-flash"`
	BaseURL      string        `env:"GENAI_BASE_URL"`
	Timeout      time.Duration `env:"GENAI_TIMEOUT" envDefault:"60s"`
	RateInterval time.Duration `env:"GENAI_RATE_INTERVAL" envDefault:"1s"`
}

// RabbitMQ holds RabbitMQ configuration. Commands are not consumed when URL is empty.
type RabbitMQ struct {
	URL        string `env:"RABBITMQ_URL"`
	Exchange   string `env:"RABBITMQ_EXCHANGE" envDefault:"product-rater-ex"`
	Queue      string `env:"RABBITMQ_QUEUE" envDefault:"product-rater.commands"`
	RoutingKey string `env:"RABBITMQ_ROUTING_KEY" envDefault:"product-rater.cmd.ingest"`
	Prefetch   int    `env:"RABBITMQ_PREFETCH" envDefault:"1"`
}
