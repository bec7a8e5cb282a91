package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Integer(t *testing.T) {
	n := Must(Integer(Minimum(3), Maximum(30), MultipleOf(3)))

	out, err := json.Marshal(Render(n))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"integer","minimum":3,"maximum":30,"multipleOf":3}`, string(out))
}

func TestRender_Primitives(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"number", Must(Number(ExclusiveMinimum(0.5), Default(1.5))), `{"type":"number","default":1.5,"exclusiveMinimum":0.5}`},
		{"string", Must(String(MinLength(4), MaxLength(10), Pattern("^[a-z]+$"))), `{"type":"string","minLength":4,"maxLength":10,"pattern":"^[a-z]+$"}`},
		{"enum", Must(String(Enum("a", "b"), Description("letters"))), `{"type":"string","description":"letters","enum":["a","b"]}`},
		{"format", Must(Email()), `{"type":"string","format":"email"}`},
		{"boolean default", Must(Boolean(Default(false))), `{"type":"boolean","default":false}`},
		{"null", Must(Basic(TypeNull)), `{"type":"null"}`},
		{"array", Must(Array(Must(String()), MinItems(1), UniqueItems(true))), `{"type":"array","items":{"type":"string"},"minItems":1,"uniqueItems":true}`},
		{"open array", Must(Array(nil)), `{"type":"array","uniqueItems":false}`},
		{"ref", &RefType{Ref: "#/definitions/Role", Description: "the role"}, `{"$ref":"#/definitions/Role","description":"the role"}`},
		{"anyOf", AnyOf(Must(String()), Must(Integer())), `{"anyOf":[{"type":"string"},{"type":"integer"}]}`},
		{"not", Not(Must(String())), `{"not":{"type":"string"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(Render(tt.node))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func movieSchema(t *testing.T) *ObjectType {
	t.Helper()
	o := Must(Object(Title("Movie"), Description("A film")))
	require.NoError(t, o.SetProperty("title", Must(String())))
	require.NoError(t, o.SetProperty("year", Must(Integer())))
	require.NoError(t, o.SetProperty("cast", Must(Array(Ref("Actor"), MinItems(1)))))
	require.NoError(t, o.AddRequired("title", "year"))
	_, err := o.AddDefinition("Actor", Must(Object(Title("Actor"))))
	require.NoError(t, err)
	return o
}

func TestRender_ObjectKeyOrder(t *testing.T) {
	doc := Render(movieSchema(t))

	assert.Equal(t,
		[]string{"title", "type", "description", "properties", "required", "additionalProperties", "definitions"},
		doc.Keys())

	props, ok := doc.Get("properties")
	require.True(t, ok)
	assert.Equal(t, []string{"title", "year", "cast"}, props.(*Document).Keys())

	required, _ := doc.Get("required")
	assert.Equal(t, []any{"title", "year"}, required)
}

func TestRender_Idempotent(t *testing.T) {
	o := movieSchema(t)

	first, err := json.Marshal(Render(o))
	require.NoError(t, err)
	second, err := json.Marshal(Render(o))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestDocument_Map(t *testing.T) {
	m := Render(movieSchema(t)).Map()

	assert.Equal(t, "object", m["type"])
	props := m["properties"].(map[string]any)
	cast := props["cast"].(map[string]any)
	assert.Equal(t, map[string]any{"$ref": "#/definitions/Actor"}, cast["items"])

	defs := m["definitions"].(map[string]any)
	assert.Contains(t, defs, "Actor")
}

func TestDocument_YAMLKeepsOrder(t *testing.T) {
	out, err := Render(Must(Integer(Minimum(3), Maximum(30)))).YAML()
	require.NoError(t, err)

	text := string(out)
	assert.Less(t, strings.Index(text, "type:"), strings.Index(text, "minimum:"))
	assert.Less(t, strings.Index(text, "minimum:"), strings.Index(text, "maximum:"))
}

func TestOptionsFromMap(t *testing.T) {
	opts, err := OptionsFromMap(map[string]any{
		"minimum":    json.Number("3"),
		"maximum":    30,
		"multipleOf": 3.0,
	})
	require.NoError(t, err)

	n, err := Integer(opts...)
	require.NoError(t, err)
	out, _ := json.Marshal(Render(n))
	assert.Equal(t, `{"type":"integer","minimum":3,"maximum":30,"multipleOf":3}`, string(out))

	_, err = OptionsFromMap(map[string]any{"minLength": "four"})
	assert.ErrorIs(t, err, ErrInvalidConstraint)

	_, err = OptionsFromMap(map[string]any{"colour": "red"})
	assert.ErrorIs(t, err, ErrInvalidConstraint)
}
