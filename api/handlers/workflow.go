package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/internal/service/invoice"
	"github.com/expenseflow/invoice-processor/internal/utils/validator"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

type WorkflowHandler struct {
	service   invoice.InvoiceProcessor
	validator *validator.TaskValidator
	logger    logger.Logger
}

// RunRequest 工作流程執行請求，同步與非同步共用
type RunRequest struct {
	Workflow string       `json:"workflow" binding:"required"`
	Task     *models.Task `json:"task"`
}

// SubmitResponse 非同步提交的回應
type SubmitResponse struct {
	TaskID    string `json:"taskId"`
	Workflow  string `json:"workflow"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func NewWorkflowHandler(service invoice.InvoiceProcessor, log logger.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		service:   service,
		validator: validator.NewTaskValidator(log),
		logger:    log,
	}
}

// RunWorkflow 同步執行具名工作流程，回傳步驟清單與解析結果
func (h *WorkflowHandler) RunWorkflow(c *gin.Context) {
	req, ok := h.bindRunRequest(c)
	if !ok {
		return
	}

	result, err := h.service.RunWorkflow(c.Request.Context(), req.Workflow, req.Task)
	if err != nil {
		status, message := classifyPipelineError(err)
		h.handleError(c, status, message, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitWorkflow 非同步提交，立即回傳任務 ID
func (h *WorkflowHandler) SubmitWorkflow(c *gin.Context) {
	req, ok := h.bindRunRequest(c)
	if !ok {
		return
	}

	run, err := h.service.SubmitWorkflow(c.Request.Context(), req.Workflow, req.Task)
	if err != nil {
		status, message := classifyPipelineError(err)
		h.handleError(c, status, message, err)
		return
	}

	c.JSON(http.StatusAccepted, SubmitResponse{
		TaskID:    run.ID,
		Workflow:  run.Workflow,
		Status:    string(run.Status),
		CreatedAt: run.CreatedAt.Format(time.RFC3339),
	})
}

// GetRunStatus 查詢非同步執行的狀態
func (h *WorkflowHandler) GetRunStatus(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Task ID is required", nil)
		return
	}

	status, err := h.service.GetRunStatus(c.Request.Context(), taskID)
	if err != nil {
		h.handleError(c, http.StatusNotFound, "Run not found", err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *WorkflowHandler) bindRunRequest(c *gin.Context) (*RunRequest, bool) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}

	if err := h.validator.ValidateTask(req.Task); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid task payload", err)
		return nil, false
	}

	return &req, true
}

func (h *WorkflowHandler) handleError(c *gin.Context, status int, message string, err error) {
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
