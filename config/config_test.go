package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.SecretKey.Session = "session-secret"
	cfg.GoogleOAuth = &GoogleOAuthConfig{ClientID: "client.apps.googleusercontent.com"}
	cfg.applyDefaults()

	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Auth: &AuthConfig{SeedAdmin: &SeedAccountConfig{}}}
	cfg.applyDefaults()

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	require.NotNil(t, cfg.SQLite)
	assert.Equal(t, defaultSQLitePath, cfg.SQLite.Path)
	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BcryptCost)
	assert.Nil(t, cfg.Auth.SeedAdmin, "an empty seed account disables seeding")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing session secret",
			mutate:  func(cfg *Config) { cfg.SecretKey.Session = "  " },
			wantErr: "secretKey.session",
		},
		{
			name:    "missing google client id",
			mutate:  func(cfg *Config) { cfg.GoogleOAuth.ClientID = "" },
			wantErr: "googleOAuth.clientId",
		},
		{
			name:    "postgres without section",
			mutate:  func(cfg *Config) { cfg.Database.Driver = DriverPostgres },
			wantErr: "postgres section",
		},
		{
			name:    "unknown driver",
			mutate:  func(cfg *Config) { cfg.Database.Driver = "mysql" },
			wantErr: "unknown database driver",
		},
		{
			name:    "bcrypt cost out of range",
			mutate:  func(cfg *Config) { cfg.Auth.BcryptCost = 99 },
			wantErr: "auth.bcryptCost",
		},
		{
			name: "half configured seed account",
			mutate: func(cfg *Config) {
				cfg.Auth.SeedAdmin = &SeedAccountConfig{Username: "admin"}
			},
			wantErr: "seedAdmin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
