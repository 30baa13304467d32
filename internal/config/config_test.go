package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JOE_DB_DRIVER", "sqlite3")
	t.Setenv("JOE_DB_DSN", "file:joe-stock.db")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWTTTL)
	require.Empty(t, cfg.Auth.JWTSecret)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "none", cfg.Tracing.Exporter)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JOE_DB_DRIVER", "postgres")
	t.Setenv("JOE_DB_DSN", "postgres://localhost/joe")
	t.Setenv("JOE_HTTP_ADDR", ":9090")
	t.Setenv("JOE_AUTH_JWT_SECRET", "s3cret")
	t.Setenv("JOE_AUTH_JWT_TTL", "1h")
	t.Setenv("JOE_LOG_FORMAT", "JSON")
	t.Setenv("JOE_TRACING_ENABLED", "true")
	t.Setenv("JOE_TRACING_EXPORTER", "otlp")
	t.Setenv("JOE_TRACING_SAMPLE_RATE", "0.25")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	require.Equal(t, time.Hour, cfg.Auth.JWTTTL)
	require.Equal(t, "json", cfg.Log.Format)
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, "otlp", cfg.Tracing.Exporter)
	require.Equal(t, 0.25, cfg.Tracing.SampleRate)
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		set  map[string]string
		want string
	}{
		{"missing driver", map[string]string{"db.dsn": "x"}, "JOE_DB_DRIVER is required"},
		{"bad driver", map[string]string{"db.driver": "oracle", "db.dsn": "x"}, "unsupported JOE_DB_DRIVER"},
		{"missing dsn", map[string]string{"db.driver": "sqlite3"}, "JOE_DB_DSN is required"},
		{"bad ttl", map[string]string{"db.driver": "sqlite3", "db.dsn": "x", "auth.jwt_ttl": "forever"}, "JOE_AUTH_JWT_TTL"},
		{"bad format", map[string]string{"db.driver": "sqlite3", "db.dsn": "x", "log.format": "xml"}, "JOE_LOG_FORMAT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tc.set {
				v.Set(k, val)
			}
			_, err := fromViper(v)
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "json")

	logger.Info("dropped")
	logger.Warn("kept", "tag_id", "t1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, "t1", entry["tag_id"])
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("debug"))
	require.Equal(t, slog.LevelError, parseLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
