package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/UniBookChain/unibook/pkg/gateway"
	"github.com/UniBookChain/unibook/pkg/logging"
)

func setupLogger() *logging.ColoredLogger {
	logger, err := logging.NewColoredLogger(logging.ComponentGateway, true)
	if err != nil {
		panic(err)
	}
	return logger
}

func main() {
	logger := setupLogger()

	cfg := parseGatewayConfig(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	g, err := gateway.New(ctx, logger, cfg)
	cancel()
	if err != nil {
		logger.ComponentError(logging.ComponentGateway, "failed to initialize gateway", zap.Error(err))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:    cfg.Gateway.ListenAddr,
		Handler: g.Routes(),
	}

	go func() {
		logger.ComponentInfo(logging.ComponentGateway, "Gateway HTTP server starting",
			zap.String("addr", cfg.Gateway.ListenAddr),
			zap.String("contract", cfg.Chain.ContractAddress),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ComponentError(logging.ComponentGateway, "HTTP server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.ComponentInfo(logging.ComponentGateway, "Shutting down gateway HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.ComponentError(logging.ComponentGateway, "HTTP server shutdown error", zap.Error(err))
	}
	logger.ComponentInfo(logging.ComponentGateway, "Gateway shutdown complete")
}
