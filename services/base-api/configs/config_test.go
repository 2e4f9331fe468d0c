package configs

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoad_Defaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg, err := Load(zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadSize)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.SoapEndpoint)
	assert.Equal(t, 2*time.Second, cfg.SoapTimeout)
	assert.Equal(t, 10, cfg.SoapRateLimitPerSec)
	assert.Equal(t, 2, cfg.SoapMaxRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.SoapBaseBackoff)
}

func TestLoad_EnvOverrides(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_SOAP_ENDPOINT", "http://localhost:8088/ws")
	t.Setenv("APP_SOAP_TIMEOUT", "750ms")

	cfg, err := Load(zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:8088/ws", cfg.SoapEndpoint)
	assert.Equal(t, 750*time.Millisecond, cfg.SoapTimeout)
}

func TestLoad_InvalidValuesAreReported(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("APP_SOAP_MAX_RETRIES", "9")
	t.Setenv("APP_SOAP_ENDPOINT", "not a url")
	core, logs := observer.New(zapcore.ErrorLevel)

	cfg, err := Load(zap.New(core))

	assert.Nil(t, cfg)
	assert.EqualError(t, err, "invalid config: SOAP_ENDPOINT (url), SOAP_MAX_RETRIES (max)")
	assert.Equal(t, 2, logs.FilterMessage("invalid config").Len())
}
