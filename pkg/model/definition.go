package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/justschema/pkg/schema"
)

// FieldDefinition is the file representation of a field.
type FieldDefinition struct {
	Name     string `yaml:"name" json:"name" mapstructure:"name"`
	Type     string `yaml:"type" json:"type" mapstructure:"type"`
	Required bool   `yaml:"required" json:"required" mapstructure:"required"`
	// Optional marks a field as having a default even when Default is omitted.
	Optional    bool           `yaml:"optional" json:"optional" mapstructure:"optional"`
	Default     any            `yaml:"default" json:"default" mapstructure:"default"`
	Description string         `yaml:"description" json:"description" mapstructure:"description"`
	Schema      map[string]any `yaml:"schema" json:"schema" mapstructure:"schema"`
}

// ModelDefinition is the file representation of a model.
type ModelDefinition struct {
	Name        string            `yaml:"name" json:"name" mapstructure:"name"`
	Description string            `yaml:"description" json:"description" mapstructure:"description"`
	Fields      []FieldDefinition `yaml:"fields" json:"fields" mapstructure:"fields"`
}

// DefinitionFile is the root of a models.yaml / models.json file.
type DefinitionFile struct {
	Models []ModelDefinition `yaml:"models" json:"models" mapstructure:"models"`
}

// Format of a definition document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads model definitions from a YAML or JSON file.
func LoadFile(path string) ([]ModelDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model definitions: %w", err)
	}
	models, err := Decode(bytes.NewReader(data), FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return models, nil
}

// Decode reads a definition document from r.
func Decode(r io.Reader, format Format) ([]ModelDescriptor, error) {
	var file DefinitionFile
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&file); err != nil {
			return nil, fmt.Errorf("failed to parse JSON definitions: %w", err)
		}
	default:
		if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to parse YAML definitions: %w", err)
		}
	}
	return file.Descriptors()
}

// DecodeModel converts a generic map, such as document frontmatter or tool
// arguments, into a ModelDefinition.
func DecodeModel(raw map[string]any) (ModelDefinition, error) {
	var def ModelDefinition
	if err := mapstructure.Decode(raw, &def); err != nil {
		return def, fmt.Errorf("failed to decode model definition: %w", err)
	}
	return def, nil
}

// Descriptors converts every model in the file.
func (f DefinitionFile) Descriptors() ([]ModelDescriptor, error) {
	out := make([]ModelDescriptor, 0, len(f.Models))
	for _, m := range f.Models {
		d, err := m.Descriptor()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Descriptor converts a definition into a ModelDescriptor, parsing type
// expressions and building explicit schemas from constraint maps.
func (m ModelDefinition) Descriptor() (ModelDescriptor, error) {
	if m.Name == "" {
		return ModelDescriptor{}, fmt.Errorf("model definition without a name")
	}
	desc := ModelDescriptor{Name: m.Name, Documentation: strings.TrimSpace(m.Description)}
	seen := make(map[string]bool, len(m.Fields))
	for _, fd := range m.Fields {
		if fd.Name == "" {
			return ModelDescriptor{}, fmt.Errorf("model %s: field without a name", m.Name)
		}
		if seen[fd.Name] {
			return ModelDescriptor{}, fmt.Errorf("model %s: field %q declared twice", m.Name, fd.Name)
		}
		seen[fd.Name] = true

		typ, err := ParseType(fd.Type)
		if err != nil {
			return ModelDescriptor{}, fmt.Errorf("model %s, field %s: %w", m.Name, fd.Name, err)
		}
		field := FieldDescriptor{
			Name:          fd.Name,
			Type:          typ,
			Required:      fd.Required,
			HasDefault:    fd.Default != nil || fd.Optional,
			Default:       fd.Default,
			Documentation: fd.Description,
		}
		if len(fd.Schema) > 0 {
			constraints := fd.Schema
			if _, ok := constraints["description"]; !ok && fd.Description != "" {
				constraints = withDescription(constraints, fd.Description)
			}
			override, err := buildOverride(typ, constraints)
			if err != nil {
				return ModelDescriptor{}, fmt.Errorf("model %s, field %s: %w", m.Name, fd.Name, err)
			}
			field.Override = override
		}
		desc.Fields = append(desc.Fields, field)
	}
	return desc, nil
}

// buildOverride turns a constraint map into an explicit node. Constraints are
// only meaningful on primitives and on lists or sets of primitives.
func buildOverride(typ TypeDescriptor, constraints map[string]any) (schema.Node, error) {
	opts, err := schema.OptionsFromMap(constraints)
	if err != nil {
		return nil, err
	}
	switch t := unwrapOptional(typ).(type) {
	case Primitive:
		return schema.ForPrimitive(t.Name, opts...)
	case Container:
		elem, ok := t.Elem.(Primitive)
		if !ok || t.Kind == Mapping {
			break
		}
		items, err := schema.ForPrimitive(elem.Name)
		if err != nil {
			return nil, err
		}
		base := []schema.Option{schema.MinItems(1), schema.UniqueItems(t.Kind == Set)}
		return schema.Array(items, append(base, opts...)...)
	}
	return nil, fmt.Errorf("schema constraints are not supported for type %s", typ)
}

func withDescription(constraints map[string]any, desc string) map[string]any {
	out := make(map[string]any, len(constraints)+1)
	for k, v := range constraints {
		out[k] = v
	}
	out["description"] = desc
	return out
}

func unwrapOptional(t TypeDescriptor) TypeDescriptor {
	u, ok := t.(Union)
	if !ok {
		return t
	}
	var kept []TypeDescriptor
	for _, m := range u.Members {
		if _, none := m.(None); !none {
			kept = append(kept, m)
		}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return t
}
