package config

import (
	"sync"
)

var (
	workflowOnce   sync.Once
	workflowConfig *WorkflowConfig
)

// WorkflowConfig 工作流程定義檔的位置
type WorkflowConfig struct {
	Dir string
}

func GetWorkflowConfig() *WorkflowConfig {
	workflowOnce.Do(func() {
		loadEnv()

		workflowConfig = &WorkflowConfig{
			Dir: getenv("WORKFLOW_DIR", "workflow"),
		}
	})
	return workflowConfig
}
