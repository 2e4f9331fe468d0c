package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/go-base-project/pkg"
	middleware "github.com/nimeshabuddhika/go-base-project/pkg/middlewares"
	"github.com/nimeshabuddhika/go-base-project/pkg/soap"
	"github.com/nimeshabuddhika/go-base-project/services/base-api/configs"
	"github.com/nimeshabuddhika/go-base-project/services/base-api/internal/handlers"
	"go.uber.org/zap"
)

// App is the wired service.
type App struct {
	Server     *http.Server
	SOAPClient *soap.Client // nil unless SOAP_ENDPOINT is configured
}

// NewApp wires dependencies, builds the Gin engine, and returns the App.
func NewApp(logger *zap.Logger, cfg *configs.Config) (*App, error) {
	// json field names and english messages must be registered before the first bind
	pkg.Validator()

	soapClient, err := newSOAPClient(logger, cfg)
	if err != nil {
		return nil, err
	}

	// Setup dependencies
	baseHandler := handlers.NewBaseHandler(logger)
	clockHandler := handlers.NewClockHandler(logger)

	// Router
	r := gin.Default()
	// Engine-wide so every route, /health and /metrics included, answers failures with the envelope
	r.Use(middleware.TraceID())
	r.Use(middleware.Metrics())
	r.Use(middleware.ErrorHandler(logger))

	api := r.Group("/api/v1")
	api.Use(middleware.MaxBodySize(cfg.MaxUploadSize))

	clockHandler.RegisterRoutes(api)
	baseHandler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	return &App{Server: srv, SOAPClient: soapClient}, nil
}

func newSOAPClient(logger *zap.Logger, cfg *configs.Config) (*soap.Client, error) {
	if pkg.IsEmpty(cfg.SoapEndpoint) {
		return nil, nil
	}
	client, err := soap.NewClient(soap.Config{
		Endpoint:        cfg.SoapEndpoint,
		Timeout:         cfg.SoapTimeout,
		RateLimitPerSec: cfg.SoapRateLimitPerSec,
		Burst:           cfg.SoapBurst,
		MaxThrottleWait: cfg.SoapMaxThrottleWait,
		MaxRetries:      cfg.SoapMaxRetries,
		BaseBackoff:     cfg.SoapBaseBackoff,
		MaxBackoff:      cfg.SoapMaxBackoff,
		Logger:          logger,
		Handlers:        []soap.Handler{soap.NewLoggingHandler(logger)},
	})
	if err != nil {
		return nil, err
	}
	logger.Info("soap client configured", zap.String("endpoint", cfg.SoapEndpoint))
	return client, nil
}
