package main

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"storefront-backend/config"
	"storefront-backend/database"
	"storefront-backend/handlers"
	"storefront-backend/logger"
	customMiddleware "storefront-backend/middleware"
	"storefront-backend/routes"
)

// errorHandler keeps every response in the {"message": ...} shape,
// including echo's own routing errors.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if he, ok := err.(*echo.HTTPError); ok {
		msg := "internal server error"
		if he.Code == http.StatusNotFound {
			msg = "Route not found"
		} else if s, ok := he.Message.(string); ok {
			msg = s
		}
		_ = c.JSON(he.Code, map[string]string{"message": msg})
		return
	}

	_ = c.JSON(http.StatusInternalServerError, map[string]string{"message": err.Error()})
}

func main() {
	config.LoadEnv()
	cfg := config.Load()

	if err := logger.Init(); err != nil {
		panic(err)
	}
	defer logger.L.Sync()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(customMiddleware.Prometheus())

	if err := database.ConnectDB(cfg.MongoURI, cfg.MongoDB); err != nil {
		logger.L.Fatal("failed to connect to database", zap.Error(err))
	}

	handlers.Init(cfg)
	routes.SetupRoutes(e, cfg)

	logger.L.Info("server starting", zap.String("port", cfg.Port))
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.L.Fatal("server stopped", zap.Error(err))
	}
}
