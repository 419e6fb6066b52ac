package builds

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/relic-planner/internal/schemas"
	"github.com/jonathan/relic-planner/internal/types"
	buildschemas "github.com/jonathan/relic-planner/schemas"
)

// Load reads a build definition from a JSON or YAML file
func Load(path string) (*types.BuildDefinition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	return Parse(path, content)
}

// Parse decodes build content. The name's extension selects YAML (.yaml,
// .yml) or JSON. The document is checked against the build definition schema
// before decoding; omitted fields keep the stock defaults and a missing id is
// generated.
func Parse(name string, content []byte) (*types.BuildDefinition, error) {
	doc := content
	if isYAML(name) {
		var v interface{}
		if err := yaml.Unmarshal(content, &v); err != nil {
			return nil, &LoadError{Path: name, Message: "failed to parse YAML", Cause: err}
		}
		var err error
		if doc, err = json.Marshal(v); err != nil {
			return nil, &LoadError{Path: name, Message: "failed to convert YAML", Cause: err}
		}
	}

	if err := schemas.ValidateBytes(buildschemas.BuildDefinition, doc); err != nil {
		return nil, &LoadError{Path: name, Message: "schema validation failed", Cause: err}
	}

	b := types.NewBuildDefinition()
	if err := json.Unmarshal(doc, b); err != nil {
		return nil, &LoadError{Path: name, Message: "failed to unmarshal JSON", Cause: err}
	}
	b.EnsureID()
	return b, nil
}

func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
