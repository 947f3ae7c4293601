package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/expenseflow/invoice-processor/internal/service/invoice"
	"github.com/expenseflow/invoice-processor/pkg/logger"
	"github.com/expenseflow/invoice-processor/pkg/queue"
)

// WorkflowWorker 消化 workflow:run 任務，實際工作交給 InvoiceProcessor
type WorkflowWorker struct {
	BaseWorker
	service invoice.InvoiceProcessor
}

func NewWorkflowWorker(cfg *Config, service invoice.InvoiceProcessor, log logger.Logger) (*WorkflowWorker, error) {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      map[string]int{"default": 1},
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Minute
			},
		},
	)

	w := &WorkflowWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		service: service,
	}

	w.mux.HandleFunc(queue.TaskTypeWorkflowRun, w.handleWorkflowRun)
	return w, nil
}

func (w *WorkflowWorker) handleWorkflowRun(ctx context.Context, t *asynq.Task) error {
	var task queue.Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("Failed to unmarshal queued task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal queued task: %w", err)
	}

	w.logger.Info("Received workflow run",
		logger.String("taskId", task.ID),
		logger.Any("metadata", task.Metadata),
	)

	if err := w.service.HandleWorkflowRun(ctx, &task); err != nil {
		w.logger.Error("Workflow run failed",
			logger.String("taskId", task.ID),
			logger.Error(err),
		)
		return err
	}

	return nil
}

func (w *WorkflowWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
