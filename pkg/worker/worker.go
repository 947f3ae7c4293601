package worker

import (
	"context"
	"sync"

	"github.com/hibiken/asynq"

	"github.com/expenseflow/invoice-processor/pkg/logger"
)

type Worker interface {
	Start(ctx context.Context) error
	Stop() error
}

type Config struct {
	RedisAddr   string
	RedisDB     int
	Concurrency int
}

type BaseWorker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	logger   logger.Logger
	stopChan chan struct{}
	stopOnce sync.Once
}

// Stop 可以被呼叫多次：訊號處理與 context 取消都會走到這裡
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.server.Stop()
	})
	return nil
}
