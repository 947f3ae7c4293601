package handlers

import (
	"github.com/expenseflow/invoice-processor/internal/service/invoice"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

type Handlers struct {
	Invoice  *InvoiceHandler
	Workflow *WorkflowHandler
}

func NewHandlers(
	invoiceService invoice.InvoiceProcessor,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Invoice:  NewInvoiceHandler(invoiceService, logger),
		Workflow: NewWorkflowHandler(invoiceService, logger),
	}
}
