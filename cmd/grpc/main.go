package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fekuna/omnipos-billing-service/config"
	"github.com/fekuna/omnipos-billing-service/internal/app"
	catH "github.com/fekuna/omnipos-billing-service/internal/catalog/handler"
	invH "github.com/fekuna/omnipos-billing-service/internal/invoice/handler"
	"github.com/fekuna/omnipos-billing-service/internal/middleware"
	orderH "github.com/fekuna/omnipos-billing-service/internal/order/handler"
	billingv1 "github.com/fekuna/omnipos-billing-service/pkg/api/billingv1"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger := app.NewLogger(cfg)
	defer appLogger.Sync()

	// 3. Connect backing services and build use cases
	a, err := app.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not initialize service", zap.Error(err))
	}
	defer a.Close()

	// 4. Start folio listener and overdue worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopBackground := a.StartBackground(ctx)

	// 5. Initialize Handlers
	catalogHandler := catH.NewCatalogHandler(a.Catalog, appLogger)
	orderHandler := orderH.NewOrderHandler(a.Orders, appLogger)
	invoiceHandler := invH.NewInvoiceHandler(a.Invoices, appLogger)

	// 6. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.ContextInterceptor(),
			middleware.LoggingInterceptor(appLogger),
		),
	)

	billingv1.RegisterCatalogServiceServer(grpcServer, catalogHandler)
	billingv1.RegisterOrderServiceServer(grpcServer, orderHandler)
	billingv1.RegisterInvoiceServiceServer(grpcServer, invoiceHandler)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()
	stopBackground()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
