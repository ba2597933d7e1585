package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config contains runtime configuration required by the service.
type Config struct {
	DBURL         string   `mapstructure:"DB_URL"`
	Store         string   `mapstructure:"STORE"`
	ListenAddr    string   `mapstructure:"LISTEN_ADDR"`
	Timezone      string   `mapstructure:"TIMEZONE"`
	ReferenceYear int      `mapstructure:"REFERENCE_YEAR"`
	LogLevel      string   `mapstructure:"LOG_LEVEL"`
	LogFormat     string   `mapstructure:"LOG_FORMAT"`
	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`
}

var keys = []string{"DB_URL", "STORE", "LISTEN_ADDR", "TIMEZONE", "REFERENCE_YEAR", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS"}

// New returns a viper instance with defaults and environment bindings.
// CONFIG_FILE, when set, names a YAML file read underneath the environment.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("STORE", StorePostgres)
	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("TIMEZONE", "America/Chicago")
	v.SetDefault("REFERENCE_YEAR", 2026)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("CORS_ORIGINS", []string{"*"})

	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	_ = v.BindEnv("CONFIG_FILE")
	return v
}

// Load reads configuration from the environment (and CONFIG_FILE, if set).
func Load() (Config, error) {
	return FromViper(New())
}

// FromViper decodes and validates a configured viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	if f := strings.TrimSpace(v.GetString("CONFIG_FILE")); f != "" {
		v.SetConfigFile(f)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config file %s", f)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	c.DBURL = strings.TrimSpace(c.DBURL)
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))

	switch c.Store {
	case StorePostgres:
		if c.DBURL == "" {
			return Config{}, errors.New("DB_URL required")
		}
	case StoreMemory:
	default:
		return Config{}, errors.Errorf("STORE must be %q or %q", StorePostgres, StoreMemory)
	}

	// CORS_ORIGINS is comma separated: "*" or full origins such as https://example.com.
	var origins []string
	for _, o := range c.CORSOrigins {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				origins = append(origins, part)
			}
		}
	}
	for _, o := range origins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return Config{}, errors.Errorf("CORS_ORIGINS entry %q must be * or start with http:// or https://", o)
		}
	}
	c.CORSOrigins = origins

	if c.ReferenceYear < 1 {
		return Config{}, errors.New("REFERENCE_YEAR must be positive")
	}
	return c, nil
}
