package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/expenseflow/invoice-processor/config"
	"github.com/expenseflow/invoice-processor/internal/service/invoice"
	"github.com/expenseflow/invoice-processor/pkg/logger"
	"github.com/expenseflow/invoice-processor/pkg/worker"
)

func main() {
	queueCfg := config.GetQueueConfig()

	log, err := logger.NewLogger(
		logger.WithLevel(config.GetServerConfig().LogLevel),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	invoiceService, err := invoice.GetService(log)
	if err != nil {
		log.Error("Failed to create invoice service", logger.Error(err))
		os.Exit(1)
	}

	workerCfg := &worker.Config{
		RedisAddr:   queueCfg.RedisAddr,
		RedisDB:     queueCfg.RedisDB,
		Concurrency: queueCfg.Concurrency,
	}

	workflowWorker, err := worker.NewWorkflowWorker(workerCfg, invoiceService, log)
	if err != nil {
		log.Error("Failed to create workflow worker", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workflowWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	workflowWorker.Stop()
	log.Info("Worker stopped")
}
