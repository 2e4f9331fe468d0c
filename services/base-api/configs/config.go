package configs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nimeshabuddhika/go-base-project/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds application configuration for base-api.
type Config struct {
	Port                string        `mapstructure:"PORT" validate:"required"`
	MaxUploadSize       int64         `mapstructure:"MAX_UPLOAD_SIZE" validate:"min=1"`
	ShutdownTimeout     time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`
	SoapEndpoint        string        `mapstructure:"SOAP_ENDPOINT" validate:"omitempty,url"`
	SoapTimeout         time.Duration `mapstructure:"SOAP_TIMEOUT" validate:"required"`
	SoapRateLimitPerSec int           `mapstructure:"SOAP_RATE_LIMIT_PER_SEC" validate:"min=0"`
	SoapBurst           int           `mapstructure:"SOAP_BURST" validate:"min=1"`
	SoapMaxThrottleWait time.Duration `mapstructure:"SOAP_MAX_THROTTLE_WAIT" validate:"required"` // fail fast if a token is further away
	SoapMaxRetries      int           `mapstructure:"SOAP_MAX_RETRIES" validate:"min=0,max=5"`
	SoapBaseBackoff     time.Duration `mapstructure:"SOAP_BASE_BACKOFF" validate:"required"`
	SoapMaxBackoff      time.Duration `mapstructure:"SOAP_MAX_BACKOFF" validate:"required"`
}

func Load(logger *zap.Logger) (*Config, error) {
	viper.SetEnvPrefix("app") // Prefix for env vars
	viper.AutomaticEnv()

	// Default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("MAX_UPLOAD_SIZE", "10485760") // 10 MiB
	viper.SetDefault("SHUTDOWN_TIMEOUT", "5s")
	viper.SetDefault("SOAP_TIMEOUT", "2s")
	viper.SetDefault("SOAP_RATE_LIMIT_PER_SEC", "10")
	viper.SetDefault("SOAP_BURST", "10")
	viper.SetDefault("SOAP_MAX_THROTTLE_WAIT", "1s")
	viper.SetDefault("SOAP_MAX_RETRIES", "2")
	viper.SetDefault("SOAP_BASE_BACKOFF", "200ms")
	viper.SetDefault("SOAP_MAX_BACKOFF", "2s")

	// Optional: Read from config.yaml if exists
	if gin.ReleaseMode == gin.Mode() {
		viper.SetConfigName("config.prod")
	} else if gin.TestMode == gin.Mode() {
		logger.Warn("running in test mode")
		viper.SetConfigName("config.test")
	} else {
		logger.Warn("running in development mode")
		viper.SetConfigName("config.dev")
	}
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./services/base-api/configs")
	_ = viper.ReadInConfig() // Ignore if no file

	var cfg Config
	if err := utils.ParseStructEnv(&cfg); err != nil {
		return nil, err
	}
	// Validate after unmarshal
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, utils.FormatConfigErrors(logger, err, cfg)
	}
	return &cfg, nil
}
