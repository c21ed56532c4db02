package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrFrontMatterInvalid wraps schema failures of a definition file header.
var ErrFrontMatterInvalid = errors.New("catalog: front matter invalid")

const frontMatterSchema = `{
  "type": "object",
  "required": ["kind", "name"],
  "properties": {
    "kind": {"enum": ["thing", "research"]},
    "name": {"type": "string", "pattern": "^[A-Za-z0-9_.\\-]+$"},
    "label": {"type": "string"},
    "description": {"type": "string"},
    "icon": {"type": "string"},
    "category": {"enum": ["item", "building", "pawn", "plant", "projectile", "mote", "ethereal", "filth"]},
    "cost": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["def", "count"],
        "properties": {
          "def": {"type": "string", "minLength": 1},
          "count": {"type": "integer", "minimum": 1}
        }
      }
    },
    "recipe": {
      "type": "object",
      "properties": {
        "product_count": {"type": "integer", "minimum": 1},
        "users": {"type": "array", "items": {"type": "string"}},
        "research_prerequisite": {"type": "string"},
        "research_prerequisites": {"type": "array", "items": {"type": "string"}}
      }
    },
    "research": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "recipes": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "weapon_tags": {"type": "array", "items": {"type": "string"}},
    "blueprint": {"type": "boolean"},
    "projectile": {"type": "boolean"},
    "mote": {"type": "boolean"},
    "build_target": {"type": "string"},
    "finished": {"type": "boolean"}
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func frontMatter() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("definition.json", strings.NewReader(frontMatterSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("definition.json")
	})
	return compiledSchema, schemaErr
}

// validateFrontMatter checks the decoded header against the definition schema.
// The header goes through encoding/json first so the validator sees plain JSON
// values rather than YAML decoder types.
func validateFrontMatter(file definitionFile) error {
	schema, err := frontMatter()
	if err != nil {
		return fmt.Errorf("%w: compile schema: %v", ErrFrontMatterInvalid, err)
	}

	encoded, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFrontMatterInvalid, err)
	}
	var payload any
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return fmt.Errorf("%w: %v", ErrFrontMatterInvalid, err)
	}

	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%w: %s", ErrFrontMatterInvalid, strings.Join(schemaIssues(validationErr), "; "))
		}
		return fmt.Errorf("%w: %v", ErrFrontMatterInvalid, err)
	}
	return nil
}

func schemaIssues(err *jsonschema.ValidationError) []string {
	var issues []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			} else if !strings.HasPrefix(location, "#") {
				location = "#" + location
			}
			issues = append(issues, fmt.Sprintf("%s: %s", location, strings.TrimSpace(node.Message)))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
