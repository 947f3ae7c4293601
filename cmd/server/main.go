package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/expenseflow/invoice-processor/api/handlers"
	"github.com/expenseflow/invoice-processor/api/routes"
	"github.com/expenseflow/invoice-processor/config"
	"github.com/expenseflow/invoice-processor/internal/service/invoice"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

func main() {
	serverCfg := config.GetServerConfig()

	// init logger
	log, err := logger.NewLogger(
		logger.WithLevel(serverCfg.LogLevel),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/app.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// init invoice service
	invoiceService, err := invoice.GetService(log)
	if err != nil {
		log.Fatal("Failed to get invoice service:", logger.Error(err))
	}

	// init handlers
	h := handlers.NewHandlers(invoiceService, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:    ":" + serverCfg.Port,
		Handler: r,
	}

	// start server
	go func() {
		log.Info("Server starting", logger.String("port", serverCfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error:", logger.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown:", logger.Error(err))
	}
}
