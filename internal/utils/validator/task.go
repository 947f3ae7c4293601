// internal/utils/validator/task.go
package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

// TaskValidator 在 API 邊界驗證文件參照與工作流程輸入，
// 核心管線假設進來的資料已通過這裡
type TaskValidator struct {
	logger      logger.Logger
	allowedExts map[string]bool
}

func NewTaskValidator(log logger.Logger) *TaskValidator {
	return &TaskValidator{
		logger: log,
		allowedExts: map[string]bool{
			".pdf":  true,
			".jpg":  true,
			".jpeg": true,
			".png":  true,
		},
	}
}

// ValidateDocumentURI 檢查 URI 形式與副檔名是否受支援
func (v *TaskValidator) ValidateDocumentURI(uri string) error {
	doc, err := models.ParseDocumentReference(uri)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(doc.Path))
	if !v.allowedExts[ext] {
		return &models.ReferenceError{
			URI:    uri,
			Reason: fmt.Sprintf("unsupported document extension %q", ext),
		}
	}

	return nil
}

// ValidateTask 檢查任務裡出現的每個文件參照
// 任務可以完全不帶參照，那只是讓解析步驟變成 no-op
func (v *TaskValidator) ValidateTask(task *models.Task) error {
	if task == nil {
		return nil
	}

	if task.Document != "" {
		if err := v.ValidateDocumentURI(task.Document); err != nil {
			return err
		}
	}
	for _, uri := range task.Documents {
		if err := v.ValidateDocumentURI(uri); err != nil {
			return err
		}
	}

	return nil
}
