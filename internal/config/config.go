package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"workflow-downloader/pkg/models"
)

// EnvPrefix prefixes every environment override, e.g. WFDL_DB_SERVER.
const EnvPrefix = "WFDL"

// Config holds the configuration for the application.
type Config struct {
	Server struct {
		Addr         string        `mapstructure:"addr"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
		IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	} `mapstructure:"server"`
	TLS struct {
		Enable    bool     `mapstructure:"enable"`
		CertFile  string   `mapstructure:"cert_file"`
		KeyFile   string   `mapstructure:"key_file"`
		Hostnames []string `mapstructure:"hostnames"`
	} `mapstructure:"tls"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	// DB is the default database used by the CLI and the MCP tools. HTTP
	// requests carry their own dbConfig.
	DB       models.DBConfig `mapstructure:"db"`
	Download struct {
		OutputRoot string `mapstructure:"output_root"`
	} `mapstructure:"download"`
	Auth struct {
		Issuer   string `mapstructure:"issuer"`
		ClientID string `mapstructure:"client_id"`
	} `mapstructure:"auth"`
	MCP struct {
		Enable bool `mapstructure:"enable"`
	} `mapstructure:"mcp"`

	file string
}

// File returns the config file that was read, or "" if none was found.
func (c *Config) File() string {
	return c.file
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	// Large controllers take a while to write out.
	v.SetDefault("server.write_timeout", 2*time.Minute)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("tls.enable", false)
	v.SetDefault("tls.cert_file", "")
	v.SetDefault("tls.key_file", "")
	v.SetDefault("tls.hostnames", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.server", "localhost")
	v.SetDefault("db.database", "")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.options.encrypt", false)
	v.SetDefault("db.pool.min", 0)
	v.SetDefault("db.pool.max", 10)
	v.SetDefault("db.pool.idle_timeout_millis", 3000)
	v.SetDefault("download.output_root", "./workflows")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.client_id", "")
	v.SetDefault("mcp.enable", false)
}

// LoadConfig loads the configuration from a file and the environment. An
// explicit configFile must exist; otherwise config.yaml is looked up in "."
// and "./config" and is optional.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	config.file = v.ConfigFileUsed()
	config.Auth.Issuer = normalizeIssuer(config.Auth.Issuer)

	return &config, nil
}

// normalizeIssuer strips surrounding whitespace and any trailing slash so a
// URL pasted from a provider console compares equal to the token's iss claim.
func normalizeIssuer(input string) string {
	return strings.TrimRight(strings.TrimSpace(input), "/")
}
