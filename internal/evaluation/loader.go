package evaluation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spacesedan/commentflow/internal/models"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported evaluation file format")

type itemFile struct {
	Videos []models.VideoEvaluationItem `json:"videos" yaml:"videos" toml:"videos"`
}

// LoadItems reads evaluation items from a .json, .yaml/.yml or .toml file.
func LoadItems(path string) ([]models.VideoEvaluationItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read evaluation file: %w", err)
	}

	items, err := ParseItems(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// ParseItems decodes items in the given format. JSON and YAML accept a bare
// list or a document with a videos key; TOML needs [[videos]] tables.
func ParseItems(data []byte, format string) ([]models.VideoEvaluationItem, error) {
	var (
		items []models.VideoEvaluationItem
		err   error
	)

	switch format {
	case "json":
		items, err = parseJSONItems(data)
	case "yaml", "yml":
		items, err = parseYAMLItems(data)
	case "toml":
		var doc itemFile
		if err = toml.Unmarshal(data, &doc); err == nil {
			items = doc.Videos
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	if err := validateItems(items); err != nil {
		return nil, err
	}
	return items, nil
}

func parseJSONItems(data []byte) ([]models.VideoEvaluationItem, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []models.VideoEvaluationItem
		err := json.Unmarshal(trimmed, &items)
		return items, err
	}
	var doc itemFile
	err := json.Unmarshal(trimmed, &doc)
	return doc.Videos, err
}

func parseYAMLItems(data []byte) ([]models.VideoEvaluationItem, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var items []models.VideoEvaluationItem
		err := root.Decode(&items)
		return items, err
	}
	var doc itemFile
	err := root.Decode(&doc)
	return doc.Videos, err
}

func validateItems(items []models.VideoEvaluationItem) error {
	for i, item := range items {
		if item.ExpectedLabel == nil {
			continue
		}
		if label := *item.ExpectedLabel; label != 0 && label != 1 {
			return fmt.Errorf("item %d (%s): sentiment must be 0 or 1, got %d", i, item.ContentID, label)
		}
	}
	return nil
}
