package http

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/justschema"
)

const apiVersion = "1.0.0"

// Spec describes the HTTP API as an OpenAPI 3 document.
func Spec() *openapi3.T {
	errorBody := openapi3.NewObjectSchema().WithProperty("error", openapi3.NewStringSchema())
	validationError := openapi3.NewObjectSchema().
		WithProperty("path", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())
	validation := openapi3.NewObjectSchema().
		WithProperty("model", openapi3.NewStringSchema()).
		WithProperty("valid", openapi3.NewBoolSchema()).
		WithPropertyRef("errors", openapi3.NewSchemaRef("", openapi3.NewArraySchema().
			WithItems(validationError)))

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{
		"Error":              openapi3.NewSchemaRef("", errorBody),
		"ValidationError":    openapi3.NewSchemaRef("", validationError),
		"ValidationResponse": openapi3.NewSchemaRef("", validation),
	}
	ref := func(name string) *openapi3.SchemaRef {
		return openapi3.NewSchemaRef("#/components/schemas/"+name, components.Schemas[name].Value)
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "justschema",
			Version: apiVersion,
			Extensions: map[string]any{
				"x-engine-version": justschema.Version,
			},
		},
		Paths:      openapi3.NewPaths(),
		Components: &components,
	}

	modelParam := openapi3.NewPathParameter("model").WithSchema(openapi3.NewStringSchema())

	list := openapi3.NewOperation()
	list.OperationID = "listModels"
	list.Summary = "List registered models"
	list.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Registered model names").
		WithJSONSchema(openapi3.NewObjectSchema().
			WithProperty("models", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))))
	doc.AddOperation("/models", http.MethodGet, list)

	show := openapi3.NewOperation()
	show.OperationID = "showSchema"
	show.Summary = "Render the JSON Schema of a model"
	show.AddParameter(modelParam)
	show.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("JSON Schema document").
		WithJSONSchema(openapi3.NewObjectSchema().WithAnyAdditionalProperties()))
	show.AddResponse(http.StatusNotFound, openapi3.NewResponse().
		WithDescription("Unknown model").
		WithJSONSchemaRef(ref("Error")))
	doc.AddOperation("/models/{model}", http.MethodGet, show)

	validate := openapi3.NewOperation()
	validate.OperationID = "validate"
	validate.Summary = "Validate one instance or an array of instances"
	validate.AddParameter(modelParam)
	validate.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithJSONSchema(openapi3.NewSchema())}
	validate.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("Valid").
		WithJSONSchemaRef(ref("ValidationResponse")))
	validate.AddResponse(http.StatusUnprocessableEntity, openapi3.NewResponse().
		WithDescription("Violations").
		WithJSONSchemaRef(ref("ValidationResponse")))
	validate.AddResponse(http.StatusNotFound, openapi3.NewResponse().
		WithDescription("Unknown model").
		WithJSONSchemaRef(ref("Error")))
	doc.AddOperation("/models/{model}/validate", http.MethodPost, validate)

	return doc
}
