package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/emscape/sparky/pkg/llm"
)

// LoadContextFile reads prior conversation turns from a JSON or YAML file.
// The format follows the extension: .yaml and .yml are YAML, anything else is
// JSON. Both hold a list of {role, content} objects.
func LoadContextFile(path string) ([]llm.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read context file: %w", err)
	}

	var messages []llm.Message
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &messages)
	default:
		err = json.Unmarshal(data, &messages)
	}
	if err != nil {
		return nil, fmt.Errorf("could not parse context file %s: %w", path, err)
	}

	if err := llm.ValidateAll(messages); err != nil {
		return nil, fmt.Errorf("invalid context file %s: %w", path, err)
	}

	return messages, nil
}
