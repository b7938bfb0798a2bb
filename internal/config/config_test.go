package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5003, cfg.Port)
	assert.Equal(t, "mongodb://mongo:27017/", cfg.Mongo.URI)
	assert.Equal(t, "expTracker", cfg.Mongo.Database)
	assert.Equal(t, "transaction_service", cfg.ServiceName)
	assert.Equal(t, "X-User", cfg.Gateway.IdentityHeader)
	assert.Equal(t, "Admin", cfg.Gateway.AdminRole)
}

func TestApplyEnv_Overrides(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(mapLookup(map[string]string{
		"PORT":                   "8080",
		"MONGODB_URI":            "mongodb://localhost:27017",
		"DB_NAME":                "ledger",
		"REDIS_ADDR":             "localhost:6379",
		"SUMMARY_CACHE_TTL":      "1m",
		"EVENTS_BACKEND":         "kafka",
		"KAFKA_BROKERS":          "k1:9092, k2:9092,",
		"EVENTS_PUBLISH_TIMEOUT": "500ms",
		"AUDIT_SINK":             "postgres",
		"AUDIT_POSTGRES_DSN":     "postgres://u:p@db/audit",
		"ROLE_HEADER":            "X-Gateway-Role",
		"EXPOSE_INTERNAL_ERRORS": "false",
	}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "ledger", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.SummaryCacheTTL)
	assert.Equal(t, BackendKafka, cfg.Events.Backend)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, 500*time.Millisecond, cfg.Events.PublishTimeout)
	assert.Equal(t, BackendPostgres, cfg.Audit.Sink)
	assert.Equal(t, "X-Gateway-Role", cfg.Gateway.RoleHeader)
	assert.Equal(t, "X-User", cfg.Gateway.IdentityHeader)
	assert.False(t, cfg.ExposeInternalErrors)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port", map[string]string{"PORT": "http"}},
		{"ttl", map[string]string{"SUMMARY_CACHE_TTL": "soon"}},
		{"bool", map[string]string{"EXPOSE_INTERNAL_ERRORS": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().applyEnv(mapLookup(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Port = 70000 }},
		{"missing mongo uri", func(c *Config) { c.Mongo.URI = "" }},
		{"unknown events backend", func(c *Config) { c.Events.Backend = "nats" }},
		{"redis events without addr", func(c *Config) { c.Events.Backend = BackendRedis }},
		{"kafka events without brokers", func(c *Config) { c.Events.Backend = BackendKafka }},
		{"kafka events without publish timeout", func(c *Config) {
			c.Events.Backend = BackendKafka
			c.Events.KafkaBrokers = []string{"k1:9092"}
			c.Events.PublishTimeout = 0
		}},
		{"postgres audit without dsn", func(c *Config) { c.Audit.Sink = BackendPostgres }},
		{"unknown audit sink", func(c *Config) { c.Audit.Sink = "s3" }},
		{"empty admin role", func(c *Config) { c.Gateway.AdminRole = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
service-name: ledger
port: 6000
mongo:
  database: ledger_test
redis:
  addr: cache:6379
  summary-cache-ttl: 45s
events:
  backend: redis
gateway:
  admin-role: Operator
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := Default()
	require.NoError(t, cfg.loadFile(path))

	assert.Equal(t, "ledger", cfg.ServiceName)
	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "ledger_test", cfg.Mongo.Database)
	assert.Equal(t, "mongodb://mongo:27017/", cfg.Mongo.URI, "unset keys keep defaults")
	assert.Equal(t, 45*time.Second, cfg.Redis.SummaryCacheTTL)
	assert.Equal(t, BackendRedis, cfg.Events.Backend)
	assert.Equal(t, "Operator", cfg.Gateway.AdminRole)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile_Missing(t *testing.T) {
	err := Default().loadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_FromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 6000\n"), 0o600))

	t.Setenv(configFileEnv, path)
	t.Setenv("PORT", "7000")
	t.Setenv("DB_NAME", "from_env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port, "environment wins over the file")
	assert.Equal(t, "from_env", cfg.Mongo.Database)
}
