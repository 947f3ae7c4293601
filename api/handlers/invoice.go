package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/internal/service/invoice"
	"github.com/expenseflow/invoice-processor/internal/utils/validator"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

type InvoiceHandler struct {
	service   invoice.InvoiceProcessor
	validator *validator.TaskValidator
	logger    logger.Logger
}

// ExtractRequest 單一文件解析請求
type ExtractRequest struct {
	Document string `json:"document" binding:"required"`
}

// ErrorResponse 錯誤回應結構
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

func NewInvoiceHandler(service invoice.InvoiceProcessor, log logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service:   service,
		validator: validator.NewTaskValidator(log),
		logger:    log,
	}
}

// ExtractInvoice 對單一文件跑 擷取 → 解析，直接回傳發票欄位
func (h *InvoiceHandler) ExtractInvoice(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.validator.ValidateDocumentURI(req.Document); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid document reference", err)
		return
	}

	fields, err := h.service.ExtractAndParseInvoice(c.Request.Context(), req.Document)
	if err != nil {
		status, message := classifyPipelineError(err)
		h.handleError(c, status, message, err)
		return
	}

	c.JSON(http.StatusOK, fields)
}

// classifyPipelineError 把管線錯誤翻成 HTTP 狀態碼
func classifyPipelineError(err error) (int, string) {
	var refErr *models.ReferenceError
	if errors.As(err, &refErr) {
		return http.StatusBadRequest, "Invalid document reference"
	}

	var extErr *models.ExtractionError
	if errors.As(err, &extErr) {
		return http.StatusBadGateway, "Failed to extract document content"
	}

	var execErr *models.ExecutionError
	if errors.As(err, &execErr) {
		return http.StatusInternalServerError, "Workflow step failed"
	}

	if errors.Is(err, models.ErrWorkflowNotFound) {
		return http.StatusNotFound, "Workflow not found"
	}

	return http.StatusInternalServerError, "Internal error"
}

// handleError 統一錯誤處理
func (h *InvoiceHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.logger.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(status, response)
}
