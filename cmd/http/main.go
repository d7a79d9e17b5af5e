package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fekuna/omnipos-billing-service/config"
	"github.com/fekuna/omnipos-billing-service/internal/app"
	"github.com/fekuna/omnipos-billing-service/internal/auth"
	catH "github.com/fekuna/omnipos-billing-service/internal/catalog/handler"
	"github.com/fekuna/omnipos-billing-service/internal/httpx"
	invH "github.com/fekuna/omnipos-billing-service/internal/invoice/handler"
	"github.com/fekuna/omnipos-billing-service/internal/middleware"
	orderH "github.com/fekuna/omnipos-billing-service/internal/order/handler"
	"github.com/fekuna/omnipos-billing-service/pkg/locale"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	appLogger := app.NewLogger(cfg)
	defer appLogger.Sync()

	a, err := app.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not initialize service", zap.Error(err))
	}
	defer a.Close()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.GinLogger(appLogger))
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept-Language", auth.HeaderPropertyID, auth.HeaderUserID},
	}))
	engine.Use(middleware.GinContext())

	engine.GET("/healthz", func(c *gin.Context) {
		if err := a.DB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	resp := httpx.NewResponder(locale.MustTranslator(), appLogger)
	api := engine.Group("/api/v1")
	catH.NewCatalogHTTPHandler(a.Catalog, resp).RegisterRoutes(api)
	orderH.NewOrderHTTPHandler(a.Orders, resp).RegisterRoutes(api)
	invH.NewInvoiceHTTPHandler(a.Invoices, resp).RegisterRoutes(api)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	srv := &http.Server{Addr: port, Handler: engine}

	appLogger.Info("Starting HTTP server", zap.String("port", port))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
