package config

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. ESQL_ELASTICSEARCH_API_KEY.
const EnvPrefix = "ESQL"

type ServerConfig struct {
	VocabularyPaths []string            `mapstructure:"vocabulary_paths"`
	LogLevel        string              `mapstructure:"log_level"`
	MetricsEnabled  bool                `mapstructure:"metrics_enabled"`
	MetricsPort     int                 `mapstructure:"metrics_port"`
	Grammar         GrammarConfig       `mapstructure:"grammar"`
	Elasticsearch   ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// GrammarConfig selects the query grammar variant.
type GrammarConfig struct {
	// Accept development-only commands.
	DevVersion bool `mapstructure:"dev_version"`
}

// ElasticsearchConfig locates the cluster schema suggestions are read from.
type ElasticsearchConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
	// Delay between schema refreshes.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	// Per-request timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// SchemaEnabled reports whether schema suggestions can be served, which
// needs both a URL and an API key.
func (c *ServerConfig) SchemaEnabled() bool {
	return c.Elasticsearch.URL != "" && c.Elasticsearch.APIKey != ""
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()

	v.SetDefault("vocabulary_paths", []string{"./vocabulary"})
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_enabled", false)
	v.SetDefault("metrics_port", 9090)

	v.SetDefault("grammar.dev_version", true)

	v.SetDefault("elasticsearch.url", "")
	v.SetDefault("elasticsearch.api_key", "")
	v.SetDefault("elasticsearch.refresh_interval", 60*time.Second)
	v.SetDefault("elasticsearch.timeout", 10*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	}
	return v
}

func decode(v *viper.Viper) (*ServerConfig, error) {
	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadServerConfig(configPath string) (*ServerConfig, error) {
	v := newViper(configPath)

	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return decode(v)
}

// WatchServerConfig loads configPath like LoadServerConfig and then calls
// onChange with the re-read configuration whenever the file changes. Reload
// failures are passed to onError and leave the previous configuration in
// effect.
func WatchServerConfig(configPath string, onChange func(*ServerConfig), onError func(error)) (*ServerConfig, error) {
	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(next)
	})
	v.WatchConfig()

	return cfg, nil
}
