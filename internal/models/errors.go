package models

import (
	"errors"
	"fmt"
)

// ErrWorkflowNotFound 找不到具名的工作流程定義
var ErrWorkflowNotFound = errors.New("workflow definition not found")

// ReferenceError reports a malformed or unresolvable document reference.
type ReferenceError struct {
	URI    string
	Reason string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("invalid document reference %q: %s", e.URI, e.Reason)
}

// ExtractionError reports a fetch or decode failure during raw-content
// extraction. Parsing failures are not errors; they degrade the record.
type ExtractionError struct {
	Source DocumentReference
	Stage  string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s (%s): %v", e.Source.URI(), e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ExecutionError wraps a step-level failure with the offending step id.
// Execution does not continue past a failing step.
type ExecutionError struct {
	StepID string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("workflow step %q failed: %v", e.StepID, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
