package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "read_committed", cfg.Database.IsolationLevel)
	assert.Equal(t, 5*time.Second, cfg.Database.TxTimeout)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Order.StrictTransitions)
	assert.Equal(t, "online payment", cfg.Order.DefaultPaymentMethod)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expire)
}

func TestLoadFileReadsYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: postgres
  dsn: host=db user=waimai
  tx_timeout: 2s
order:
  strict_transitions: true
redis:
  enabled: true
  cache_ttl: 1m
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=db user=waimai", cfg.Database.DSN)
	assert.Equal(t, 2*time.Second, cfg.Database.TxTimeout)
	assert.True(t, cfg.Order.StrictTransitions)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	// 未出现在文件中的键仍取默认值
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("WAIMAI_SERVER_PORT", "7070")
	t.Setenv("WAIMAI_ORDER_STRICT_TRANSITIONS", "true")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Order.StrictTransitions)
}

func TestLoadFileRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed\n")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: "sqlite", TxTimeout: time.Second},
			JWT:      JWTConfig{Secret: "s"},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Database.Driver = "oracle"
	assert.ErrorContains(t, cfg.Validate(), "unsupported database driver")

	cfg = valid()
	cfg.JWT.Secret = ""
	assert.ErrorContains(t, cfg.Validate(), "jwt.secret")

	cfg = valid()
	cfg.Database.TxTimeout = 0
	assert.ErrorContains(t, cfg.Validate(), "tx_timeout")
}

func TestLoadUsesConfigPathEnv(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: oracle\n")
	t.Setenv("CONFIG_PATH", path)
	_, err := Load()
	assert.ErrorContains(t, err, "oracle")
}
