package loam

import "github.com/aretw0/justschema/pkg/model"

// ModelMetadata is the frontmatter (or JSON/YAML body) of a model document.
//
//	---
//	name: Movie
//	fields:
//	  - name: title
//	    type: str
//	    schema: {minLength: 4}
//	  - name: cast
//	    type: list[Actor]
//	---
//	A story with plot and characters.
//
// The Markdown body documents the model when description is empty.
type ModelMetadata struct {
	Name        string                  `json:"name" mapstructure:"name"`
	Description string                  `json:"description" mapstructure:"description"`
	Fields      []model.FieldDefinition `json:"fields" mapstructure:"fields"`
}

func (m ModelMetadata) definition(name, body string) model.ModelDefinition {
	desc := m.Description
	if desc == "" {
		desc = body
	}
	return model.ModelDefinition{
		Name:        name,
		Description: desc,
		Fields:      m.Fields,
	}
}
