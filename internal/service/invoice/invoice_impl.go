package invoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	cfg "github.com/expenseflow/invoice-processor/config"
	"github.com/expenseflow/invoice-processor/internal/extract"
	"github.com/expenseflow/invoice-processor/internal/fx"
	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/internal/parse"
	"github.com/expenseflow/invoice-processor/internal/workflow"
	"github.com/expenseflow/invoice-processor/pkg/logger"
	"github.com/expenseflow/invoice-processor/pkg/queue"
	"github.com/expenseflow/invoice-processor/pkg/storage"
)

// WorkflowSource 依名稱取得工作流程定義
type WorkflowSource interface {
	Load(name string) (*models.WorkflowDefinition, error)
}

// runPayload 佇列任務的內容：要跑哪個工作流程、帶什麼輸入
type runPayload struct {
	Workflow string       `json:"workflow"`
	Task     *models.Task `json:"task"`
}

type InvoiceService struct {
	extractor     workflow.DocumentExtractor
	parser        workflow.FieldParser
	source        WorkflowSource
	executor      *workflow.Executor
	queue         queue.Queue
	store         storage.BlobStore
	resultsBucket string
	logger        logger.Logger
}

func NewService(
	extractor workflow.DocumentExtractor,
	parser workflow.FieldParser,
	source WorkflowSource,
	q queue.Queue,
	store storage.BlobStore,
	resultsBucket string,
	log logger.Logger,
) InvoiceProcessor {
	return &InvoiceService{
		extractor:     extractor,
		parser:        parser,
		source:        source,
		executor:      workflow.NewExecutor(extractor, parser, log),
		queue:         q,
		store:         store,
		resultsBucket: resultsBucket,
		logger:        log,
	}
}

// GetService 以環境設定組好整條管線
func GetService(log logger.Logger) (InvoiceProcessor, error) {
	store, err := storage.NewBlobStore(storage.StorageType(cfg.GetStorageConfig().Type), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	queueConf := cfg.GetQueueConfig()
	q, err := queue.NewAsynqQueue(queueConf)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize queue: %w", err)
	}

	rates := fx.NewClient(cfg.GetFXConfig(), log)
	parser := parse.NewParser(rates, log)
	extractor := extract.NewExtractor(store, log)
	loader := workflow.NewLoader(cfg.GetWorkflowConfig().Dir, log)

	return NewService(extractor, parser, loader, q, store, queueConf.ResultsBucket, log), nil
}

// ExtractAndParseInvoice runs Extractor then Parser on a single document.
func (s *InvoiceService) ExtractAndParseInvoice(ctx context.Context, documentURI string) (*models.InvoiceFields, error) {
	doc, err := models.ParseDocumentReference(documentURI)
	if err != nil {
		return nil, err
	}

	result, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}

	return s.parser.Parse(ctx, result.RawText), nil
}

// RunWorkflow loads the named definition and executes it synchronously.
func (s *InvoiceService) RunWorkflow(ctx context.Context, name string, task *models.Task) (*RunResult, error) {
	def, err := s.source.Load(name)
	if err != nil {
		return nil, err
	}

	execCtx, err := s.executor.Execute(ctx, def, task)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		Workflow: def.Name,
		Steps:    execCtx.StepIDs,
		Invoice:  execCtx.Invoice,
	}, nil
}

// SubmitWorkflow enqueues a workflow run. The definition is loaded up front
// so an unknown name fails at submission, not inside the worker.
func (s *InvoiceService) SubmitWorkflow(ctx context.Context, name string, task *models.Task) (*models.WorkflowRun, error) {
	if _, err := s.source.Load(name); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(&runPayload{Workflow: name, Task: task})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run payload: %w", err)
	}

	now := time.Now()
	run := &models.WorkflowRun{
		ID:        uuid.New().String(),
		Workflow:  name,
		Status:    models.RunPending,
		CreatedAt: now,
	}

	queueTask := &queue.Task{
		ID:        run.ID,
		Type:      queue.TaskTypeWorkflowRun,
		Payload:   payload,
		Metadata:  map[string]string{"workflow": name},
		CreatedAt: now,
	}
	if err := s.queue.Enqueue(ctx, queueTask); err != nil {
		return nil, fmt.Errorf("failed to enqueue workflow run: %w", err)
	}

	if err := s.queue.SaveStatus(ctx, &queue.TaskStatus{
		TaskID:    run.ID,
		Status:    string(models.RunPending),
		StartedAt: now,
	}); err != nil {
		s.logger.Warn("Failed to save initial run status",
			logger.String("taskId", run.ID),
			logger.Error(err),
		)
	}

	s.logger.Info("Workflow run submitted",
		logger.String("taskId", run.ID),
		logger.String("workflow", name),
	)

	return run, nil
}

// GetRunStatus 轉給佇列查詢
func (s *InvoiceService) GetRunStatus(ctx context.Context, taskID string) (*queue.TaskStatus, error) {
	return s.queue.GetTaskStatus(ctx, taskID)
}

// HandleWorkflowRun executes one queued run, stores the result JSON in the
// blob store and records the final status.
func (s *InvoiceService) HandleWorkflowRun(ctx context.Context, task *queue.Task) error {
	var payload runPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal run payload: %w", err)
	}

	s.logger.Info("Processing workflow run",
		logger.String("taskId", task.ID),
		logger.String("workflow", payload.Workflow),
	)

	result, err := s.RunWorkflow(ctx, payload.Workflow, payload.Task)
	if err != nil {
		s.saveFinalStatus(ctx, &queue.TaskStatus{
			TaskID:     task.ID,
			Status:     string(models.RunFailed),
			Error:      err.Error(),
			StartedAt:  task.CreatedAt,
			FinishedAt: time.Now(),
		})
		return err
	}

	resultURI, err := s.storeResult(ctx, task.ID, result)
	if err != nil {
		s.saveFinalStatus(ctx, &queue.TaskStatus{
			TaskID:     task.ID,
			Status:     string(models.RunFailed),
			Error:      err.Error(),
			StartedAt:  task.CreatedAt,
			FinishedAt: time.Now(),
		})
		return err
	}

	s.saveFinalStatus(ctx, &queue.TaskStatus{
		TaskID:     task.ID,
		Status:     string(models.RunCompleted),
		ResultURI:  resultURI,
		StartedAt:  task.CreatedAt,
		FinishedAt: time.Now(),
	})

	return nil
}

func (s *InvoiceService) storeResult(ctx context.Context, taskID string, result *RunResult) (string, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run result: %w", err)
	}

	uri := fmt.Sprintf("store://%s/results/%s.json", s.resultsBucket, taskID)
	if _, err := s.store.Store(ctx, uri, bytes.NewReader(data), "application/json"); err != nil {
		return "", fmt.Errorf("failed to store run result: %w", err)
	}

	return uri, nil
}

func (s *InvoiceService) saveFinalStatus(ctx context.Context, status *queue.TaskStatus) {
	if err := s.queue.SaveStatus(ctx, status); err != nil {
		s.logger.Error("Failed to save final run status",
			logger.String("taskId", status.TaskID),
			logger.Error(err),
		)
	}
}
