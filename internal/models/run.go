package models

import (
	"time"
)

// RunStatus 非同步工作流程執行的狀態
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// WorkflowRun 一次非同步提交的工作流程執行紀錄
// 同步管線本身不碰這個結構，只有提交與查詢狀態的外圍會用到
type WorkflowRun struct {
	ID        string    `json:"id"`
	Workflow  string    `json:"workflow"`
	Status    RunStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	ResultURI string    `json:"resultUri,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}
