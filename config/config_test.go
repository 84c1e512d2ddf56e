package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "")
	t.Setenv("ADMIN_JWT_SECRET", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.AdminAuthEnabled())
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("FRONTEND_URL", "https://care.example.com/")
	t.Setenv("S3_PROVIDER", "Wasabi")
	t.Setenv("ADMIN_JWT_SECRET", "s3cret")
	t.Setenv("SWAGGER_ENABLED", "false")
	t.Setenv("RATE_LIMIT_INTAKE_THRESHOLD", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,192.168.1.10 ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, "https://care.example.com", cfg.FrontendURL)
	assert.Equal(t, "wasabi", cfg.S3Provider)
	assert.True(t, cfg.AdminAuthEnabled())
	assert.False(t, cfg.SwaggerEnabled)
	assert.Equal(t, 10, cfg.RateLimitIntakeThreshold)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.TrustedProxies)
}
