package router

import (
	"crypto/subtle"
	"net/http"

	"nlreminder/internal/interfaces/api/handler"
	"nlreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Config holds the dependencies for the router.
type Config struct {
	LineHandler     *handler.LineHandler
	DeliveryHandler *handler.DeliveryHandler
	// DeliveryToken is the bearer token POST /tasks/deliver requires.
	// The route is not mounted without one.
	DeliveryToken string
	Logger        logger.Logger
}

// NewRouter creates and configures a new Echo router.
func NewRouter(cfg *Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			cfg.Logger.Info("REQUEST",
				"method", v.Method, "uri", v.URI, "status", v.Status,
				"latency", v.Latency, "request_id", v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/healthz", handler.HandleHealth)

	// LINE Platform requires POST for webhook
	e.POST("/callback", cfg.LineHandler.HandleWebhook)

	if cfg.DeliveryHandler != nil && cfg.DeliveryToken != "" {
		e.POST("/tasks/deliver", cfg.DeliveryHandler.HandleDeliver, bearerAuth(cfg.DeliveryToken))
	}

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	})

	cfg.Logger.Info("Router initialized with routes.")
	return e
}

// bearerAuth accepts only "Authorization: Bearer <token>".
func bearerAuth(token string) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(key string, c echo.Context) (bool, error) {
			return subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		},
	})
}
