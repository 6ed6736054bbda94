package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ecogo/internal/lifecycle"
	"ecogo/internal/logger"
	"ecogo/internal/publisher"
	"ecogo/internal/repository"
	"ecogo/internal/server"
	"ecogo/internal/service"

	"github.com/spf13/viper"
)

const (
	envPrefix     = "ECOGO"
	backendSQLite = "sqlite"
	backendFire   = "firestore"
)

type appConfig struct {
	LogLevel  string             `mapstructure:"log_level"`
	Server    server.Config      `mapstructure:"server"`
	DB        dbConfig           `mapstructure:"db"`
	Store     storeConfig        `mapstructure:"store"`
	Auth      service.AuthConfig `mapstructure:"auth"`
	Lifecycle lifecycle.Config   `mapstructure:"lifecycle"`
	Simulator simulatorConfig    `mapstructure:"simulator"`
	MQTT      publisher.Config   `mapstructure:"mqtt"`
}

type dbConfig struct {
	Path string `mapstructure:"path"`
}

// storeConfig picks where user snapshots live. Accounts and the event log
// stay in SQLite either way.
type storeConfig struct {
	Backend   string                     `mapstructure:"backend"`
	Firestore repository.FirestoreConfig `mapstructure:"firestore"`
}

type simulatorConfig struct {
	service.SimulatorConfig `mapstructure:",squash"`
	Tick                    time.Duration `mapstructure:"tick"`
}

func setDefaults(v *viper.Viper) {
	lc := lifecycle.DefaultConfig()

	v.SetDefault("log_level", logger.InfoLevel)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("db.path", "ecogo.db")
	v.SetDefault("store.backend", backendSQLite)
	v.SetDefault("store.firestore.project_id", "")
	v.SetDefault("store.firestore.database", "")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", 12*time.Hour)
	v.SetDefault("lifecycle.grace_period", lc.GracePeriod)
	v.SetDefault("lifecycle.tick_interval", lc.TickInterval)
	v.SetDefault("lifecycle.default_extension", lc.DefaultExtension)
	v.SetDefault("lifecycle.alert_retention", lc.AlertRetention)
	v.SetDefault("lifecycle.persist_retry", lc.PersistRetry)
	v.SetDefault("lifecycle.save_timeout", lc.SaveTimeout)
	v.SetDefault("lifecycle.max_duration", lc.MaxDuration)
	v.SetDefault("simulator.jitter", 0.1)
	v.SetDefault("simulator.tick", time.Second)
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.client_id", "")
	v.SetDefault("mqtt.topic_prefix", "ecogo")
	v.SetDefault("mqtt.publish_timeout", 5*time.Second)
}

// readConfig layers defaults, the YAML file and ECOGO_* variables. A missing
// file is fine unless it was named explicitly.
func readConfig(v *viper.Viper, path string) (appConfig, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return appConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg appConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return appConfig{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return appConfig{}, err
	}
	return cfg, nil
}

func (c *appConfig) validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case backendSQLite, backendFire:
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", backendSQLite, backendFire, c.Store.Backend)
	}
	if c.DB.Path == "" {
		return errors.New("db.path is required")
	}
	if c.Simulator.Tick <= 0 {
		return errors.New("simulator.tick must be positive")
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return errors.New("mqtt.broker is required when mqtt is enabled")
	}
	return nil
}

func loadConfig() (appConfig, error) {
	return readConfig(v, cfgFile)
}
