package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expenseflow/invoice-processor/pkg/logger"
)

func TestStopIsIdempotent(t *testing.T) {
	w, err := NewWorkflowWorker(&Config{
		RedisAddr:   "localhost:6379",
		Concurrency: 1,
	}, nil, logger.NewTestLogger())
	require.NoError(t, err)

	// 訊號處理與 context 取消可能各呼叫一次
	assert.NotPanics(t, func() {
		require.NoError(t, w.Stop())
		require.NoError(t, w.Stop())
	})
}
