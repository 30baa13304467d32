package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/joestump/joe-stock/internal/tracing"
)

type Config struct {
	HTTP struct {
		Addr            string
		ShutdownTimeout time.Duration
	}
	DB struct {
		Driver string
		DSN    string
	}
	Auth struct {
		JWTSecret string
		JWTTTL    time.Duration
	}
	Log struct {
		Level  string
		Format string
	}
	Tracing tracing.Config
}

// Load reads config from the environment (JOE_ prefix), an optional .env file
// and an optional joe-stock.yaml. Environment variables win over the file.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("JOE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("joe-stock")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read joe-stock.yaml: %w", err)
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	td := tracing.DefaultConfig()
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("auth.jwt_ttl", "24h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("tracing.enabled", td.Enabled)
	v.SetDefault("tracing.exporter", td.Exporter)
	v.SetDefault("tracing.otlp_endpoint", td.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", td.SampleRate)
	v.SetDefault("tracing.service_name", td.ServiceName)
}

func fromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	cfg.Log.Level = strings.ToLower(v.GetString("log.level"))
	cfg.Log.Format = strings.ToLower(v.GetString("log.format"))
	cfg.Tracing = tracing.Config{
		Enabled:      v.GetBool("tracing.enabled"),
		Exporter:     v.GetString("tracing.exporter"),
		OTLPEndpoint: v.GetString("tracing.otlp_endpoint"),
		SampleRate:   v.GetFloat64("tracing.sample_rate"),
		ServiceName:  v.GetString("tracing.service_name"),
	}

	var err error
	if cfg.HTTP.ShutdownTimeout, err = time.ParseDuration(v.GetString("http.shutdown_timeout")); err != nil {
		return nil, fmt.Errorf("invalid JOE_HTTP_SHUTDOWN_TIMEOUT: %w", err)
	}
	if cfg.Auth.JWTTTL, err = time.ParseDuration(v.GetString("auth.jwt_ttl")); err != nil {
		return nil, fmt.Errorf("invalid JOE_AUTH_JWT_TTL: %w", err)
	}

	switch cfg.DB.Driver {
	case "":
		return nil, fmt.Errorf("JOE_DB_DRIVER is required (sqlite3, mysql, postgres)")
	case "sqlite3", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported JOE_DB_DRIVER %q (sqlite3, mysql, postgres)", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("JOE_DB_DSN is required")
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid JOE_LOG_FORMAT %q (text, json)", cfg.Log.Format)
	}

	return cfg, nil
}
