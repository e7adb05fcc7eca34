// Package config loads the console configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Platform  PlatformConfig  `yaml:"platform" mapstructure:"platform"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Audit     AuditConfig     `yaml:"audit" mapstructure:"audit"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// PlatformConfig configures access to the merchant platform clusters.
type PlatformConfig struct {
	Token          string                   `yaml:"token" mapstructure:"token"`
	DefaultCluster string                   `yaml:"default_cluster" mapstructure:"default_cluster"`
	Clusters       map[string]ClusterConfig `yaml:"clusters" mapstructure:"clusters"`
	TimeoutSecs    int                      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RetryAttempts  int                      `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RateLimitRPS   float64                  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// ClusterConfig describes one upstream cluster.
type ClusterConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ClusterTable flattens the cluster config into the key -> base URL map the
// resolver consumes.
func (p PlatformConfig) ClusterTable() map[string]string {
	table := make(map[string]string, len(p.Clusters))
	for key, c := range p.Clusters {
		table[key] = c.BaseURL
	}
	return table
}

// AnthropicConfig holds Anthropic API settings for prompt testing.
type AnthropicConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	DefaultModel string `yaml:"default_model" mapstructure:"default_model"`
	MaxTokens    int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// NotionConfig holds the ops-workspace directory mirror settings.
type NotionConfig struct {
	Token       string `yaml:"token" mapstructure:"token"`
	DirectoryDB string `yaml:"directory_db" mapstructure:"directory_db"`
}

// ExportConfig configures workbook exports and the optional FTP drop.
type ExportConfig struct {
	Dir string    `yaml:"dir" mapstructure:"dir"`
	FTP FTPConfig `yaml:"ftp" mapstructure:"ftp"`
}

// FTPConfig holds partner FTP drop credentials.
type FTPConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Dir      string `yaml:"dir" mapstructure:"dir"`
}

// AuditConfig configures the write-operation audit trail.
type AuditConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Actor       string `yaml:"actor" mapstructure:"actor"`
}

// ServerConfig configures the local console API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml and MERCHANT_* environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MERCHANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. The cluster table is the documented deployment topology;
	// deployments override it wholesale in config.yaml.
	v.SetDefault("platform.default_cluster", "us-east")
	v.SetDefault("platform.clusters.us-east.base_url", "https://us-east.api.conversehq.com")
	v.SetDefault("platform.clusters.eu-west.base_url", "https://eu-west.api.conversehq.com")
	v.SetDefault("platform.clusters.ap-south.base_url", "https://ap-south.api.conversehq.com")
	v.SetDefault("platform.timeout_secs", 30)
	v.SetDefault("platform.retry_attempts", 3)
	v.SetDefault("platform.rate_limit_rps", 10)
	v.SetDefault("anthropic.default_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("export.dir", ".")
	v.SetDefault("audit.driver", "sqlite")
	v.SetDefault("audit.path", "merchant-cli-audit.db")
	v.SetDefault("audit.actor", "console")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
