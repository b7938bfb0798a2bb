package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const configFileEnv = "CONFIG_FILE"

// Event and audit backends.
const (
	BackendNone     = "none"
	BackendRedis    = "redis"
	BackendKafka    = "kafka"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

type MongoConfig struct {
	URI                    string        `yaml:"uri"`
	Database               string        `yaml:"database"`
	ServerSelectionTimeout time.Duration `yaml:"server-selection-timeout"`
}

type RedisConfig struct {
	Addr            string        `yaml:"addr"`
	Password        string        `yaml:"password"`
	DB              int           `yaml:"db"`
	DialTimeout     time.Duration `yaml:"dial-timeout"`
	SummaryCacheTTL time.Duration `yaml:"summary-cache-ttl"`
}

type EventsConfig struct {
	Backend        string        `yaml:"backend"`
	KafkaBrokers   []string      `yaml:"kafka-brokers"`
	PublishTimeout time.Duration `yaml:"publish-timeout"`
}

type AuditConfig struct {
	Sink         string        `yaml:"sink"`
	PostgresDSN  string        `yaml:"postgres-dsn"`
	WriteTimeout time.Duration `yaml:"write-timeout"`
}

type GatewayConfig struct {
	IdentityHeader string `yaml:"identity-header"`
	RoleHeader     string `yaml:"role-header"`
	AdminRole      string `yaml:"admin-role"`
}

type Config struct {
	ServiceName          string        `yaml:"service-name"`
	Port                 int           `yaml:"port"`
	LogEnv               string        `yaml:"log-env"`
	ExposeInternalErrors bool          `yaml:"expose-internal-errors"`
	ShutdownTimeout      time.Duration `yaml:"shutdown-timeout"`
	Mongo                MongoConfig   `yaml:"mongo"`
	Redis                RedisConfig   `yaml:"redis"`
	Events               EventsConfig  `yaml:"events"`
	Audit                AuditConfig   `yaml:"audit"`
	Gateway              GatewayConfig `yaml:"gateway"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		ServiceName:          "transaction_service",
		Port:                 5003,
		LogEnv:               "dev",
		ExposeInternalErrors: true,
		ShutdownTimeout:      10 * time.Second,
		Mongo: MongoConfig{
			URI:                    "mongodb://mongo:27017/",
			Database:               "expTracker",
			ServerSelectionTimeout: 5 * time.Second,
		},
		Redis: RedisConfig{
			DialTimeout:     5 * time.Second,
			SummaryCacheTTL: 30 * time.Second,
		},
		Events: EventsConfig{
			Backend:        BackendNone,
			PublishTimeout: 2 * time.Second,
		},
		Audit: AuditConfig{
			Sink:         BackendMongo,
			WriteTimeout: 5 * time.Second,
		},
		Gateway: GatewayConfig{
			IdentityHeader: "X-User",
			RoleHeader:     "X-Role",
			AdminRole:      "Admin",
		},
	}
}

// Load builds the configuration from defaults, an optional .env file, an
// optional YAML file named by CONFIG_FILE, and finally the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "loading .env")
	}

	cfg := Default()
	if path := os.Getenv(configFileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	rawYAML, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(rawYAML, c); err != nil {
		return errors.Wrap(err, "parsing yaml")
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var firstErr error
	parsed := func(key string, parse func(string) error) {
		v, ok := lookup(key)
		if !ok || v == "" || firstErr != nil {
			return
		}
		if err := parse(v); err != nil {
			firstErr = errors.Wrapf(err, "invalid %s", key)
		}
	}

	str("SERVICE_NAME", &c.ServiceName)
	str("LOG_ENV", &c.LogEnv)
	str("MONGODB_URI", &c.Mongo.URI)
	str("DB_NAME", &c.Mongo.Database)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)
	str("EVENTS_BACKEND", &c.Events.Backend)
	str("AUDIT_SINK", &c.Audit.Sink)
	str("AUDIT_POSTGRES_DSN", &c.Audit.PostgresDSN)
	str("IDENTITY_HEADER", &c.Gateway.IdentityHeader)
	str("ROLE_HEADER", &c.Gateway.RoleHeader)
	str("ADMIN_ROLE", &c.Gateway.AdminRole)

	parsed("PORT", func(v string) (err error) {
		c.Port, err = strconv.Atoi(v)
		return err
	})
	parsed("REDIS_DB", func(v string) (err error) {
		c.Redis.DB, err = strconv.Atoi(v)
		return err
	})
	parsed("EXPOSE_INTERNAL_ERRORS", func(v string) (err error) {
		c.ExposeInternalErrors, err = strconv.ParseBool(v)
		return err
	})
	parsed("MONGO_SERVER_SELECTION_TIMEOUT", func(v string) (err error) {
		c.Mongo.ServerSelectionTimeout, err = time.ParseDuration(v)
		return err
	})
	parsed("SUMMARY_CACHE_TTL", func(v string) (err error) {
		c.Redis.SummaryCacheTTL, err = time.ParseDuration(v)
		return err
	})
	parsed("AUDIT_WRITE_TIMEOUT", func(v string) (err error) {
		c.Audit.WriteTimeout, err = time.ParseDuration(v)
		return err
	})
	parsed("EVENTS_PUBLISH_TIMEOUT", func(v string) (err error) {
		c.Events.PublishTimeout, err = time.ParseDuration(v)
		return err
	})
	parsed("SHUTDOWN_TIMEOUT", func(v string) (err error) {
		c.ShutdownTimeout, err = time.ParseDuration(v)
		return err
	})
	parsed("KAFKA_BROKERS", func(v string) error {
		c.Events.KafkaBrokers = splitList(v)
		return nil
	})
	return firstErr
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("port %d out of range", c.Port)
	}
	if c.Mongo.URI == "" || c.Mongo.Database == "" {
		return errors.New("mongo uri and database are required")
	}
	if c.Gateway.IdentityHeader == "" || c.Gateway.RoleHeader == "" || c.Gateway.AdminRole == "" {
		return errors.New("gateway identity header, role header and admin role are required")
	}

	switch c.Events.Backend {
	case BackendNone:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("events backend redis requires REDIS_ADDR")
		}
	case BackendKafka:
		if len(c.Events.KafkaBrokers) == 0 {
			return errors.New("events backend kafka requires KAFKA_BROKERS")
		}
		if c.Events.PublishTimeout <= 0 {
			return errors.New("events backend kafka requires a positive publish timeout")
		}
	default:
		return errors.Errorf("unknown events backend %q", c.Events.Backend)
	}

	switch c.Audit.Sink {
	case BackendNone, BackendMongo:
	case BackendPostgres:
		if c.Audit.PostgresDSN == "" {
			return errors.New("audit sink postgres requires AUDIT_POSTGRES_DSN")
		}
	default:
		return errors.Errorf("unknown audit sink %q", c.Audit.Sink)
	}
	return nil
}
