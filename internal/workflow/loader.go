package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/expenseflow/invoice-processor/internal/models"
	"github.com/expenseflow/invoice-processor/pkg/logger"
)

// Loader 從目錄載入具名的工作流程定義檔
// 定義檔是唯讀設定，名稱對應 <dir>/<name>.json 或 .yaml
type Loader struct {
	dir    string
	logger logger.Logger
}

func NewLoader(dir string, log logger.Logger) *Loader {
	return &Loader{
		dir:    dir,
		logger: log,
	}
}

// Load resolves name to a definition file and decodes it. A name that does
// not resolve to any file yields ErrWorkflowNotFound.
func (l *Loader) Load(name string) (*models.WorkflowDefinition, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("invalid workflow name %q: %w", name, models.ErrWorkflowNotFound)
	}

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(l.dir, name+ext)

		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read workflow file %s: %w", path, err)
		}

		def, err := decode(data, ext)
		if err != nil {
			return nil, fmt.Errorf("failed to decode workflow file %s: %w", path, err)
		}
		if def.Name == "" {
			def.Name = name
		}

		l.logger.Debug("Loaded workflow definition",
			logger.String("name", def.Name),
			logger.Int("steps", len(def.Steps)),
		)
		return def, nil
	}

	return nil, fmt.Errorf("workflow %q: %w", name, models.ErrWorkflowNotFound)
}

func decode(data []byte, ext string) (*models.WorkflowDefinition, error) {
	var def models.WorkflowDefinition

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, err
		}
	}

	return &def, nil
}
