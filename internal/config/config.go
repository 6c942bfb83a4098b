package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/moghtech/komodo-core/internal/helpers"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const redactedValue = "##############"

// CoreConfig is loaded once at startup and is read-only afterwards.
type CoreConfig struct {
	Host    string `mapstructure:"host" yaml:"host"`
	Port    int    `mapstructure:"port" yaml:"port"`
	Passkey string `mapstructure:"passkey" yaml:"passkey"`

	Mongo   MongoConfig   `mapstructure:"mongo" yaml:"mongo"`
	Redis   RedisConfig   `mapstructure:"redis" yaml:"redis"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Cron spec for the server state refresh, e.g. "@every 15s".
	MonitoringInterval string `mapstructure:"monitoring_interval" yaml:"monitoring_interval"`

	GitProviders     []GitProvider    `mapstructure:"git_providers" yaml:"git_providers"`
	DockerRegistries []DockerRegistry `mapstructure:"docker_registries" yaml:"docker_registries"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri" yaml:"uri,omitempty"`
	Address  string `mapstructure:"address" yaml:"address"`
	Username string `mapstructure:"username" yaml:"username,omitempty"`
	Password string `mapstructure:"password" yaml:"password,omitempty"`
	AppName  string `mapstructure:"app_name" yaml:"app_name"`
	DBName   string `mapstructure:"db_name" yaml:"db_name"`
}

// RedisConfig is optional. Server states are cached in memory when Address
// is empty.
type RedisConfig struct {
	Address   string `mapstructure:"address" yaml:"address,omitempty"`
	Password  string `mapstructure:"password" yaml:"password,omitempty"`
	DB        int    `mapstructure:"db" yaml:"db"`
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

type ProviderAccount struct {
	Username string `mapstructure:"username" yaml:"username"`
	Token    string `mapstructure:"token" yaml:"token"`
}

// GitProvider configures static accounts for a git provider.
type GitProvider struct {
	Domain   string            `mapstructure:"domain" yaml:"domain"`
	HTTPS    *bool             `mapstructure:"https" yaml:"https,omitempty"`
	Accounts []ProviderAccount `mapstructure:"accounts" yaml:"accounts"`
}

// UseHTTPS defaults to true when https is not configured.
func (p GitProvider) UseHTTPS() bool {
	return p.HTTPS == nil || *p.HTTPS
}

type DockerRegistry struct {
	Domain   string            `mapstructure:"domain" yaml:"domain"`
	Accounts []ProviderAccount `mapstructure:"accounts" yaml:"accounts"`
}

// MongoURI returns the configured uri, or assembles one from the address and
// credentials.
func (c MongoConfig) MongoURI() string {
	if c.URI != "" {
		return c.URI
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   c.Address,
	}

	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}

	return u.String()
}

// LoadConfig loads configuration from a file and environment variables. An
// empty path searches the default locations; a missing default file is not
// an error.
func LoadConfig(path string) (*CoreConfig, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("KOMODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	envMappings := map[string]string{
		"host":                "KOMODO_HOST",
		"port":                "KOMODO_PORT",
		"passkey":             "KOMODO_PASSKEY",
		"mongo.uri":           "KOMODO_MONGO_URI",
		"mongo.address":       "KOMODO_MONGO_ADDRESS",
		"mongo.username":      "KOMODO_MONGO_USERNAME",
		"mongo.password":      "KOMODO_MONGO_PASSWORD",
		"mongo.db_name":       "KOMODO_MONGO_DB_NAME",
		"redis.address":       "KOMODO_REDIS_ADDRESS",
		"redis.password":      "KOMODO_REDIS_PASSWORD",
		"monitoring_interval": "KOMODO_MONITORING_INTERVAL",
		"logging.level":       "KOMODO_LOGGING_LEVEL",
		"logging.pretty":      "KOMODO_LOGGING_PRETTY",
	}

	for configKey, envVar := range envMappings {
		if err := v.BindEnv(configKey, envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, configKey)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("core.config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.komodo")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var config CoreConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "http://localhost:9120")
	v.SetDefault("port", 9120)
	v.SetDefault("mongo.address", "localhost:27017")
	v.SetDefault("mongo.app_name", "komodo_core")
	v.SetDefault("mongo.db_name", "komodo")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "komodo:")
	v.SetDefault("monitoring_interval", "@every 15s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", true)
}

func validateConfig(config *CoreConfig) error {
	var problems []string

	for i, provider := range config.GitProviders {
		if helpers.EmptyOrOnlySpaces(provider.Domain) {
			problems = append(problems, fmt.Sprintf("git_providers[%d]: domain is empty", i))
		}
		problems = append(problems, validateAccounts(fmt.Sprintf("git_providers[%d]", i), provider.Accounts)...)
	}

	for i, registry := range config.DockerRegistries {
		if helpers.EmptyOrOnlySpaces(registry.Domain) {
			problems = append(problems, fmt.Sprintf("docker_registries[%d]: domain is empty", i))
		}
		problems = append(problems, validateAccounts(fmt.Sprintf("docker_registries[%d]", i), registry.Accounts)...)
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}

	if helpers.EmptyOrOnlySpaces(config.Passkey) {
		log.Warn().Msg("No core passkey configured, servers without their own passkey will not authenticate")
	}

	return nil
}

func validateAccounts(prefix string, accounts []ProviderAccount) []string {
	var problems []string
	for i, account := range accounts {
		if helpers.EmptyOrOnlySpaces(account.Username) {
			problems = append(problems, fmt.Sprintf("%s.accounts[%d]: username is empty", prefix, i))
		}
	}
	return problems
}

// Redacted returns a copy that is safe to print.
func (c CoreConfig) Redacted() CoreConfig {
	if c.Passkey != "" {
		c.Passkey = redactedValue
	}

	if c.Mongo.Password != "" {
		c.Mongo.Password = redactedValue
	}

	if c.Redis.Password != "" {
		c.Redis.Password = redactedValue
	}

	if c.Mongo.URI != "" {
		if u, err := url.Parse(c.Mongo.URI); err == nil && u.User != nil {
			if _, hasPassword := u.User.Password(); hasPassword {
				u.User = url.UserPassword(u.User.Username(), redactedValue)
				c.Mongo.URI = u.String()
			}
		}
	}

	gitProviders := make([]GitProvider, len(c.GitProviders))
	for i, provider := range c.GitProviders {
		provider.Accounts = redactAccounts(provider.Accounts)
		gitProviders[i] = provider
	}
	c.GitProviders = gitProviders

	registries := make([]DockerRegistry, len(c.DockerRegistries))
	for i, registry := range c.DockerRegistries {
		registry.Accounts = redactAccounts(registry.Accounts)
		registries[i] = registry
	}
	c.DockerRegistries = registries

	return c
}

func redactAccounts(accounts []ProviderAccount) []ProviderAccount {
	redacted := make([]ProviderAccount, len(accounts))
	for i, account := range accounts {
		redacted[i] = ProviderAccount{Username: account.Username, Token: redactedValue}
	}
	return redacted
}
