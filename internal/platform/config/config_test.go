// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dashboard/internal/platform/config"
)

/*
TestParseEnvironment covers the two recognised tags and rejection of everything else.
*/
func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    config.Environment
		wantErr bool
	}{
		{"development_lower", "development", config.Development, false},
		{"development_canonical", "Development", config.Development, false},
		{"production_upper", "PRODUCTION", config.Production, false},
		{"production_padded", "  production ", config.Production, false},
		{"staging", "staging", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.ParseEnvironment(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, config.ErrUnknownEnvironment)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestLoad_Production verifies a complete production configuration.
*/
func TestLoad_Production(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("PATH_BASE", "/app")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.Production, cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "/error", cfg.ErrorPath)
	assert.Equal(t, "/app", cfg.PathBase)
}

/*
TestLoad_ConfigurationFaults verifies that startup fails instead of defaulting.
*/
func TestLoad_ConfigurationFaults(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown_environment", map[string]string{"ENVIRONMENT": "staging"}},
		{"empty_environment", map[string]string{"ENVIRONMENT": ""}},
		{"production_without_secret", map[string]string{"ENVIRONMENT": "production", "SESSION_SECRET": ""}},
		{"relative_error_path", map[string]string{"ENVIRONMENT": "development", "ERROR_PATH": "error"}},
		{"trailing_slash_path_base", map[string]string{"ENVIRONMENT": "development", "PATH_BASE": "/app/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg, err := config.Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

/*
TestValidate_Development verifies that development does not require a session secret.
*/
func TestValidate_Development(t *testing.T) {
	cfg := &config.Config{Environment: config.Development, ErrorPath: "/error"}
	assert.NoError(t, cfg.Validate())

	cfg.Environment = ""
	assert.ErrorIs(t, cfg.Validate(), config.ErrUnknownEnvironment)
}
