package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "propledger", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "propledger", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiration)
		assert.Equal(t, "SGD", cfg.Export.Currency)
		assert.Equal(t, "A4", cfg.Export.PaperSize)
		assert.Equal(t, 10*time.Minute, cfg.Idempotency.TTL)
		assert.Equal(t, "propledger", cfg.Telemetry.ServiceName)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("PROPLEDGER_APP_PORT", "9090")
		t.Setenv("PROPLEDGER_DATABASE_DRIVER", "sqlite")
		t.Setenv("PROPLEDGER_DATABASE_PATH", ":memory:")
		t.Setenv("PROPLEDGER_IDEMPOTENCY_TTL", "30s")
		t.Setenv("PROPLEDGER_EXPORT_CURRENCY", "USD")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.App.Port)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, ":memory:", cfg.Database.DSN())
		assert.Equal(t, 30*time.Second, cfg.Idempotency.TTL)
		assert.Equal(t, "USD", cfg.Export.Currency)
	})
}

func TestFromViper_Validation(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{
			name:    "unknown driver",
			values:  map[string]any{"database.driver": "mysql"},
			wantErr: "database.driver",
		},
		{
			name:    "idle exceeds open",
			values:  map[string]any{"database.max_open_conns": 2, "database.max_idle_conns": 5},
			wantErr: "max_idle_conns",
		},
		{
			name:    "bad paper size",
			values:  map[string]any{"export.paper_size": "A3"},
			wantErr: "export.paper_size",
		},
		{
			name:    "storage without credentials",
			values:  map[string]any{"storage.enabled": true},
			wantErr: "storage.access_key",
		},
		{
			name:    "jwt enabled without secret",
			values:  map[string]any{"jwt.enabled": true},
			wantErr: "jwt.secret",
		},
		{
			name: "production short secret",
			values: map[string]any{
				"app.env": "production", "jwt.enabled": true, "jwt.secret": "short",
			},
			wantErr: "at least 32",
		},
		{
			name: "production requires db password",
			values: map[string]any{
				"app.env": "production", "database.sslmode": "require",
			},
			wantErr: "database.password",
		},
		{
			name: "production rejects sslmode disable",
			values: map[string]any{
				"app.env": "production", "database.password": "secret",
			},
			wantErr: "sslmode",
		},
		{
			name: "production rejects wildcard cors",
			values: map[string]any{
				"app.env": "production", "database.password": "secret", "database.sslmode": "require",
				"http.cors_allow_origins": []string{"*"},
			},
			wantErr: "cors_allow_origins",
		},
		{
			name:    "sampling ratio out of range",
			values:  map[string]any{"telemetry.sampling_ratio": 1.5},
			wantErr: "sampling_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.values {
				v.Set(k, val)
			}
			_, err := fromViper(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("production sqlite skips postgres checks", func(t *testing.T) {
		v := viper.New()
		v.Set("app.env", "production")
		v.Set("database.driver", "sqlite")
		cfg, err := fromViper(v)
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Driver:   DriverPostgres,
		Host:     "db",
		Port:     5433,
		User:     "app",
		Password: "p@ss word",
		DBName:   "ledger",
		SSLMode:  "require",
	}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5433/ledger?sslmode=require", d.DSN())
}
