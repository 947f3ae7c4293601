package workflow

import (
	"context"

	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

// StepParseInvoiceInput 目前唯一會實際執行的步驟識別碼
// 其他識別碼合法但不做事，只回報在 StepIDs 裡
const StepParseInvoiceInput = "parse_invoice_input"

// DocumentExtractor 擷取單一文件的原始內容
type DocumentExtractor interface {
	Extract(ctx context.Context, doc models.DocumentReference) (*models.ExtractionResult, error)
}

// FieldParser 從原始文字解析發票欄位，total function
type FieldParser interface {
	Parse(ctx context.Context, rawText *string) *models.InvoiceFields
}

// Executor 依定義順序執行工作流程步驟，結果累積在 ExecutionContext
type Executor struct {
	extractor DocumentExtractor
	parser    FieldParser
	logger    logger.Logger
}

func NewExecutor(extractor DocumentExtractor, parser FieldParser, log logger.Logger) *Executor {
	return &Executor{
		extractor: extractor,
		parser:    parser,
		logger:    log,
	}
}

// Execute runs the definition's steps in order. Every step id encountered is
// reported in StepIDs; unrecognized ids are inert. A recognized step with no
// document reference in the task is likewise inert. Each recognized run
// overwrites Invoice, so a repeated step yields only its last result. A step
// failure stops execution and surfaces as an ExecutionError.
func (e *Executor) Execute(ctx context.Context, def *models.WorkflowDefinition, task *models.Task) (*models.ExecutionContext, error) {
	execCtx := &models.ExecutionContext{
		Task:    task,
		StepIDs: make([]string, 0, len(def.Steps)),
	}

	occurrence := 0
	for _, step := range def.Steps {
		execCtx.StepIDs = append(execCtx.StepIDs, step.ID)

		if step.ID != StepParseInvoiceInput {
			continue
		}

		uri := task.DocumentFor(occurrence)
		occurrence++
		if uri == "" {
			e.logger.Debug("Parse step has no document reference, skipping",
				logger.String("workflow", def.Name),
				logger.String("step", step.ID),
			)
			continue
		}

		fields, err := e.runParseStep(ctx, uri)
		if err != nil {
			return nil, &models.ExecutionError{StepID: step.ID, Err: err}
		}
		execCtx.Invoice = fields
	}

	return execCtx, nil
}

func (e *Executor) runParseStep(ctx context.Context, uri string) (*models.InvoiceFields, error) {
	doc, err := models.ParseDocumentReference(uri)
	if err != nil {
		return nil, err
	}

	result, err := e.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}

	return e.parser.Parse(ctx, result.RawText), nil
}
