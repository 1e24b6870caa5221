package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("OCR_ENDPOINT", "http://ocr.local/v1/recognize")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, OCRProviderHTTP, cfg.OCR.Provider)
	assert.Equal(t, 15*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, 60*time.Second, cfg.OCR.URLExpiry)
	assert.Equal(t, 24*time.Hour, cfg.OCR.CacheTTL)
	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
	assert.Equal(t, StorageLocal, cfg.Storage.Backend)
	assert.NotEmpty(t, cfg.Storage.LocalSecret)
	assert.NotEmpty(t, cfg.Auth.JWTSigningKey)
	assert.Empty(t, cfg.Database.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("OCR_PROVIDER", "Tesseract")
	t.Setenv("OCR_TIMEOUT", "5s")
	t.Setenv("OCR_LANGUAGES", "eng, spa")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_USE_PATH_STYLE", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,k1:9092")
	t.Setenv("AUDIT_BUFFER_SIZE", "64")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, OCRProviderTesseract, cfg.OCR.Provider)
	assert.Equal(t, 5*time.Second, cfg.OCR.Timeout)
	assert.Equal(t, []string{"eng", "spa"}, cfg.OCR.Languages)
	assert.Equal(t, StorageS3, cfg.Storage.Backend)
	assert.True(t, cfg.Storage.UsePathStyle)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 64, cfg.Audit.BufferSize)
}

func TestFromEnvErrors(t *testing.T) {
	t.Run("collects every bad value", func(t *testing.T) {
		t.Setenv("OCR_ENDPOINT", "http://ocr.local")
		t.Setenv("OCR_TIMEOUT", "soon")
		t.Setenv("OCR_BURST", "many")

		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OCR_TIMEOUT must be a positive duration")
		assert.Contains(t, err.Error(), "OCR_BURST must be an integer")
	})

	t.Run("http provider needs endpoint", func(t *testing.T) {
		t.Setenv("OCR_ENDPOINT", "")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "OCR_ENDPOINT is required")
	})

	t.Run("secrets required outside local", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("JWT_SIGNING_KEY", "")
		t.Setenv("LOCAL_STORAGE_SECRET", "")
		t.Setenv("OCR_ENDPOINT", "http://ocr.local")

		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SIGNING_KEY is required")
		assert.Contains(t, err.Error(), "LOCAL_STORAGE_SECRET is required")
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("OCR_PROVIDER", "magic")
		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown OCR_PROVIDER "magic"`)
	})
}
