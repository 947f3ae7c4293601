package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

func writeWorkflowFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadJSONDefinition(t *testing.T) {
	dir := t.TempDir()
	writeWorkflowFile(t, dir, "invoice_processing.json", `{
		"name": "invoice_processing",
		"steps": [
			{"id": "fetch_input"},
			{"id": "parse_invoice_input", "name": "Parse invoice input"}
		]
	}`)

	l := NewLoader(dir, logger.NewTestLogger())

	def, err := l.Load("invoice_processing")
	require.NoError(t, err)
	assert.Equal(t, "invoice_processing", def.Name)
	require.Len(t, def.Steps, 2)
	assert.Equal(t, "fetch_input", def.Steps[0].ID)
	assert.Equal(t, "parse_invoice_input", def.Steps[1].ID)
}

func TestLoadYAMLDefinition(t *testing.T) {
	dir := t.TempDir()
	writeWorkflowFile(t, dir, "monthly.yaml", "steps:\n  - id: parse_invoice_input\n  - id: notify_approver\n")

	l := NewLoader(dir, logger.NewTestLogger())

	def, err := l.Load("monthly")
	require.NoError(t, err)
	// 檔案裡沒寫 name 就用檔名
	assert.Equal(t, "monthly", def.Name)
	require.Len(t, def.Steps, 2)
	assert.Equal(t, "parse_invoice_input", def.Steps[0].ID)
}

func TestLoadUnknownNameIsNotFound(t *testing.T) {
	l := NewLoader(t.TempDir(), logger.NewTestLogger())

	_, err := l.Load("missing")
	assert.ErrorIs(t, err, models.ErrWorkflowNotFound)
}

func TestLoadRejectsPathTraversal(t *testing.T) {
	l := NewLoader(t.TempDir(), logger.NewTestLogger())

	for _, name := range []string{"", "../etc/passwd", "a/b", `a\b`} {
		_, err := l.Load(name)
		assert.ErrorIs(t, err, models.ErrWorkflowNotFound, "name %q", name)
	}
}

func TestLoadMalformedDefinition(t *testing.T) {
	dir := t.TempDir()
	writeWorkflowFile(t, dir, "broken.json", `{not json`)

	l := NewLoader(dir, logger.NewTestLogger())

	_, err := l.Load("broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrWorkflowNotFound)
}
