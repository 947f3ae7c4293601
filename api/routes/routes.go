package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/expenseflow/invoice-processor/api/handlers"
	"github.com/expenseflow/invoice-processor/api/middleware"
)

// SetupRoutes 配置所有路由
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")

	invoices := v1.Group("/invoices")
	{
		invoices.POST("/extract", h.Invoice.ExtractInvoice)
	}

	workflows := v1.Group("/workflows")
	{
		workflows.POST("/run", h.Workflow.RunWorkflow)
		workflows.POST("/submit", h.Workflow.SubmitWorkflow)
		workflows.GET("/tasks/:taskId", h.Workflow.GetRunStatus)
	}
}
