package models

// WorkflowStep 工作流程中的一個步驟，id 以外的欄位一律忽略
type WorkflowStep struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// WorkflowDefinition 具名工作流程定義，步驟順序即執行順序
type WorkflowDefinition struct {
	Name  string         `json:"name" yaml:"name"`
	Steps []WorkflowStep `json:"steps" yaml:"steps"`
}

// Task is the caller-supplied payload for a workflow run. Document holds a
// single document URI; Documents lets a definition that repeats the parse
// step consume one reference per occurrence, in order.
type Task struct {
	Document  string            `json:"document,omitempty"`
	Documents []string          `json:"documents,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// DocumentFor returns the document URI for the n-th (0-based) occurrence of
// the parse step, or "" when the task carries none for it.
func (t *Task) DocumentFor(occurrence int) string {
	if t == nil {
		return ""
	}
	if occurrence < len(t.Documents) {
		return t.Documents[occurrence]
	}
	if occurrence == 0 || len(t.Documents) == 0 {
		return t.Document
	}
	return ""
}

// ExecutionContext 單次工作流程執行的狀態，request-scoped，
// 回應產生後即丟棄
type ExecutionContext struct {
	Task    *Task          `json:"task"`
	StepIDs []string       `json:"steps"`
	Invoice *InvoiceFields `json:"invoice"`
}
