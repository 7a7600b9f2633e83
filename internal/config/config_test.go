package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "focusframe-api", cfg.ServiceName)
	assert.Equal(t, ":8190", cfg.Addr())
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, ChangeFeedMemory, cfg.ChangeFeed)
	assert.Equal(t, 25*time.Second, cfg.StreamHeartbeat)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "auth without issuer",
			env:     map[string]string{"AUTH_ENABLED": "true", "AUDIENCE": "ff", "JWKS_URL": "http://jwks"},
			wantErr: "ISSUER is required",
		},
		{
			name:    "unknown store driver",
			env:     map[string]string{"STORE_DRIVER": "firestore"},
			wantErr: "unsupported STORE_DRIVER",
		},
		{
			name:    "redis feed without url",
			env:     map[string]string{"CHANGE_FEED": "redis"},
			wantErr: "REDIS_URL is required",
		},
		{
			name:    "unknown feed",
			env:     map[string]string{"CHANGE_FEED": "kafka"},
			wantErr: "unsupported CHANGE_FEED",
		},
		{
			name: "memory store with auth",
			env: map[string]string{
				"STORE_DRIVER": "memory",
				"AUTH_ENABLED": "true",
				"ISSUER":       "http://issuer",
				"AUDIENCE":     "focusframe",
				"JWKS_URL":     "http://issuer/certs",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
