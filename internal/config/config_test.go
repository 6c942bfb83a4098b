package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
passkey: core-passkey
mongo:
  address: mongo:27017
  username: admin
  password: secret
git_providers:
  - domain: github.com
    accounts:
      - username: alice
        token: tok_cfg
  - domain: gitea.local
    https: false
    accounts:
      - username: bob
        token: tok_bob
docker_registries:
  - domain: ghcr.io
    accounts:
      - username: alice
        token: tok_registry
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "core.config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "core-passkey", config.Passkey)
	assert.Equal(t, 9120, config.Port)
	assert.Equal(t, "komodo", config.Mongo.DBName)
	assert.Equal(t, "info", config.Logging.Level)

	require.Len(t, config.GitProviders, 2)
	assert.Equal(t, "github.com", config.GitProviders[0].Domain)
	assert.True(t, config.GitProviders[0].UseHTTPS())
	assert.Equal(t, []ProviderAccount{{Username: "alice", Token: "tok_cfg"}}, config.GitProviders[0].Accounts)
	assert.False(t, config.GitProviders[1].UseHTTPS())

	require.Len(t, config.DockerRegistries, 1)
	assert.Equal(t, "tok_registry", config.DockerRegistries[0].Accounts[0].Token)
}

func TestLoadConfig_MonitoringDefaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "@every 15s", config.MonitoringInterval)
	assert.Empty(t, config.Redis.Address)
	assert.Equal(t, "komodo:", config.Redis.KeyPrefix)

	t.Setenv("KOMODO_REDIS_ADDRESS", "redis:6379")
	t.Setenv("KOMODO_MONITORING_INTERVAL", "@every 1m")

	config, err = LoadConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "redis:6379", config.Redis.Address)
	assert.Equal(t, "@every 1m", config.MonitoringInterval)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("KOMODO_PASSKEY", "env-passkey")
	t.Setenv("KOMODO_MONGO_DB_NAME", "komodo_test")

	config, err := LoadConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-passkey", config.Passkey)
	assert.Equal(t, "komodo_test", config.Mongo.DBName)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_RejectsBlankDomains(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
git_providers:
  - domain: "   "
    accounts:
      - username: alice
        token: tok
docker_registries:
  - domain: ghcr.io
    accounts:
      - username: ""
        token: tok
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git_providers[0]: domain is empty")
	assert.Contains(t, err.Error(), "docker_registries[0].accounts[0]: username is empty")
}

func TestMongoConfig_MongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://db:27017", MongoConfig{Address: "db:27017"}.MongoURI())
	assert.Equal(t, "mongodb://admin:secret@db:27017", MongoConfig{Address: "db:27017", Username: "admin", Password: "secret"}.MongoURI())
	assert.Equal(t, "mongodb+srv://cluster", MongoConfig{URI: "mongodb+srv://cluster", Address: "ignored"}.MongoURI())
}

func TestCoreConfig_Redacted(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)
	config.Mongo.URI = "mongodb://admin:secret@db:27017"
	config.Redis.Password = "redis-secret"

	redacted := config.Redacted()

	assert.Equal(t, redactedValue, redacted.Passkey)
	assert.Equal(t, redactedValue, redacted.Mongo.Password)
	assert.NotContains(t, redacted.Mongo.URI, "secret")
	assert.Equal(t, redactedValue, redacted.Redis.Password)
	assert.Equal(t, "alice", redacted.GitProviders[0].Accounts[0].Username)
	assert.Equal(t, redactedValue, redacted.GitProviders[0].Accounts[0].Token)
	assert.Equal(t, redactedValue, redacted.DockerRegistries[0].Accounts[0].Token)

	// the original snapshot is untouched
	assert.Equal(t, "core-passkey", config.Passkey)
	assert.Equal(t, "tok_cfg", config.GitProviders[0].Accounts[0].Token)
}
