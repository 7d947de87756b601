package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/taskrank/internal/productivity/application/queries"
)

// Batch file formats accepted by analyze and task import.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrExpectedArray is returned when a batch file is not a list of tasks.
var ErrExpectedArray = errors.New("expected a JSON array of tasks")

// ReadTaskFile loads a batch of tasks. A path of "-" reads from stdin.
// An empty format is inferred from the file extension, defaulting to JSON.
func ReadTaskFile(path, format string, stdin io.Reader) ([]queries.TaskInput, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	if format == "" {
		format = formatFromPath(path)
	}
	return DecodeTasks(data, format)
}

// DecodeTasks parses a JSON or YAML list of tasks.
func DecodeTasks(data []byte, format string) ([]queries.TaskInput, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		var inputs []queries.TaskInput
		if err := yaml.Unmarshal(data, &inputs); err != nil {
			return nil, fmt.Errorf("invalid YAML task list: %w", err)
		}
		return inputs, nil
	case FormatJSON, "":
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, ErrExpectedArray
		}
		var inputs []queries.TaskInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, fmt.Errorf("invalid JSON task list: %w", err)
		}
		return inputs, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (use json or yaml)", format)
	}
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
