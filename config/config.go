package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Drivers de armazenamento suportados.
const (
	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
)

// Config armazena todas as configurações do serviço de locais.
// Os campos são preenchidos a partir do ambiente (e de um .env opcional em desenvolvimento).
type Config struct {
	// Geral
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Armazenamento
	StorageDriver string        `envconfig:"STORAGE_DRIVER" default:"dynamodb"`
	DBTimeout     time.Duration `envconfig:"DB_TIMEOUT" default:"5s"` // Timeout por operação de storage

	// DynamoDB
	TableLocales     string `envconfig:"TABLE_LOCALES" default:"ChinaWok-Locales"`
	TableUsuarios    string `envconfig:"TABLE_USUARIOS" default:"ChinaWok-Usuarios"`
	TableGerentes    string `envconfig:"TABLE_GERENTES"` // Vazio: sem tabela de reivindicação, só scan
	AWSRegion        string `envconfig:"AWS_REGION" default:"us-east-1"`
	DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT"` // e.g. http://localhost:8000 (DynamoDB Local)

	// PostgreSQL
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Badger (vazio = em memória)
	BadgerPath string `envconfig:"BADGER_PATH"`

	// Cache (Redis). Vazio desliga cache e rate limiting.
	RedisAddr string        `envconfig:"REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"30s"`

	// Mensageria (RabbitMQ). Vazio desliga a publicação de eventos.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"locales.events"`

	// Segurança (JWT)
	AuthEnabled    bool          `envconfig:"AUTH_ENABLED" default:"false"`
	JWTSecretKey   string        `envconfig:"JWT_SECRET_KEY"`
	TokenExpiry    time.Duration `envconfig:"JWT_EXPIRY" default:"60m"`
	AuthWriteRoles []string      `envconfig:"AUTH_WRITE_ROLES" default:"Gerente"`

	// Rate Limiting
	RateLimitMaxRequests int           `envconfig:"RATE_LIMIT_MAX_REQUESTS" default:"100"`
	RateLimitPeriod      time.Duration `envconfig:"RATE_LIMIT_PERIOD" default:"1m"`

	// Comportamento do protocolo de gerentes
	DeleteStrict          bool `envconfig:"DELETE_STRICT" default:"false"`
	DemoteReplacedManager bool `envconfig:"DEMOTE_REPLACED_MANAGER" default:"false"`
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() (*Config, error) {
	// .env é opcional; em produção as variáveis vêm do ambiente.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejeita combinações inconsistentes antes de a aplicação subir.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverDynamoDB:
		if c.TableLocales == "" || c.TableUsuarios == "" {
			return fmt.Errorf("config: TABLE_LOCALES e TABLE_USUARIOS são obrigatórias para o driver %s", c.StorageDriver)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL é obrigatória para o driver %s", c.StorageDriver)
		}
	case DriverBadger:
	default:
		return fmt.Errorf("config: STORAGE_DRIVER desconhecido %q", c.StorageDriver)
	}

	if c.AuthEnabled && c.JWTSecretKey == "" {
		return fmt.Errorf("config: JWT_SECRET_KEY deve ser definida quando AUTH_ENABLED=true")
	}
	if c.DBTimeout <= 0 {
		return fmt.Errorf("config: DB_TIMEOUT deve ser positivo")
	}
	return nil
}
