package invoice

import (
	"context"

	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/pkg/queue"
)

// RunResult 一次同步工作流程執行的回傳結果
type RunResult struct {
	Workflow string                `json:"workflow"`
	Steps    []string              `json:"steps"`
	Invoice  *models.InvoiceFields `json:"invoice"`
}

// InvoiceProcessor 核心管線對 HTTP 層暴露的同步 API，
// 加上非同步提交與狀態查詢
type InvoiceProcessor interface {
	// ExtractAndParseInvoice 單一文件的直接入口，繞過工作流程步驟清單
	ExtractAndParseInvoice(ctx context.Context, documentURI string) (*models.InvoiceFields, error)

	// RunWorkflow 載入具名定義並同步執行
	RunWorkflow(ctx context.Context, name string, task *models.Task) (*RunResult, error)

	// SubmitWorkflow 把一次執行排進佇列，立即回傳執行紀錄
	SubmitWorkflow(ctx context.Context, name string, task *models.Task) (*models.WorkflowRun, error)

	// GetRunStatus 查詢非同步執行的狀態
	GetRunStatus(ctx context.Context, taskID string) (*queue.TaskStatus, error)

	// HandleWorkflowRun 由 worker 呼叫，消化一筆佇列任務
	HandleWorkflowRun(ctx context.Context, task *queue.Task) error
}
