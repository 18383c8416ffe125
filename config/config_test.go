package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "rahasia")
	t.Setenv("APP_PORT", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("SEED_USERS", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "uploadFoto", cfg.PhotoDir)
	assert.Equal(t, "Asia/Jakarta", cfg.DB.TimeZone)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.MongoEnabled())
	assert.False(t, cfg.SeedUsers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "rahasia")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://sekolah.id")
	t.Setenv("SEED_USERS", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.MongoEnabled())
	assert.True(t, cfg.SeedUsers)
	assert.Equal(t, []string{"http://localhost:5173", "https://sekolah.id"}, cfg.CORSOrigins)
}

func TestFromEnvErrors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "rahasia")
	t.Setenv("JWT_TTL", "sehari")
	_, err = FromEnv()
	assert.Error(t, err)

	t.Setenv("JWT_TTL", "24h")
	t.Setenv("SEED_USERS", "mungkin")
	_, err = FromEnv()
	assert.Error(t, err)
}
