package model

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/justschema/pkg/schema"
)

type Role struct {
	Name string `json:"name"`
	Race string `json:"race"`
}

type Actor struct {
	Name string `json:"name"`
	Sex  string `json:"sex"`
	Role Role   `json:"role"`
	Age  int    `json:"age" schema:"default=10"`
}

type Movie struct {
	Main       Actor   `json:"main" description:"Actor playing the main character"`
	Title      string  `json:"title" schema:"required,default=NA,minLength=4,maxLength=24"`
	Released   bool    `json:"released,omitempty"`
	Characters *int    `json:"characters"`
	Budget     float64 `json:"budget" schema:"default=100000"`
}

type Manager struct {
	Actors []Actor `json:"actors"`
	Movies []Movie `json:"movies"`
}

type Node struct {
	Value    string  `json:"value"`
	Children []*Node `json:"children,omitempty"`
}

type Audit struct {
	CreatedAt time.Time `json:"created_at"`
}

type Kitchen struct {
	Audit
	ID       uuid.UUID           `json:"id"`
	Tags     map[string]struct{} `json:"tags"`
	Counts   map[string]int      `json:"counts"`
	Extra    map[string]any      `json:"extra"`
	Raw      []byte              `json:"raw"`
	Anything []any               `json:"anything"`
	Timeout  time.Duration       `json:"timeout"`
	Level    string              `json:"level" schema:"enum=low|high"`
	Score    int                 `schema:"type=optional[int]"`
	internal string
	Skipped  string `json:"-"`
}

func TestReflector_Describe_Order(t *testing.T) {
	models, err := NewReflector().Describe(Manager{})
	require.NoError(t, err)

	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"Role", "Actor", "Movie", "Manager"}, names)
}

func TestReflector_Describe_Fields(t *testing.T) {
	models, err := NewReflector().Describe(&Movie{})
	require.NoError(t, err)
	movie := models[len(models)-1]
	require.Equal(t, "Movie", movie.Name)

	byName := map[string]FieldDescriptor{}
	for _, f := range movie.Fields {
		byName[f.Name] = f
	}

	assert.Equal(t, Ref("Actor"), byName["main"].Type)
	assert.Equal(t, "Actor playing the main character", byName["main"].Documentation)
	assert.True(t, byName["main"].IsRequired())

	title := byName["title"]
	assert.True(t, title.IsRequired())
	assert.Equal(t, "NA", title.Default)
	str, ok := title.Override.(*schema.StringType)
	require.True(t, ok)
	assert.Equal(t, 4, *str.MinLength)
	assert.Equal(t, 24, *str.MaxLength)
	assert.Equal(t, "NA", *str.Default)

	assert.False(t, byName["released"].IsRequired(), "omitempty implies a default")
	assert.Equal(t, Optional(Prim("integer")), byName["characters"].Type)
	assert.False(t, byName["characters"].IsRequired(), "pointers are optional")

	budget := byName["budget"]
	assert.False(t, budget.IsRequired())
	assert.Equal(t, 100000.0, budget.Default)
}

func TestReflector_Describe_Types(t *testing.T) {
	models, err := NewReflector().Describe(Kitchen{})
	require.NoError(t, err)
	require.Len(t, models, 1)

	types := map[string]TypeDescriptor{}
	for _, f := range models[0].Fields {
		types[f.Name] = f.Type
	}

	assert.Equal(t, Prim("date-time"), types["created_at"], "embedded struct fields are promoted")
	assert.Equal(t, Prim("string"), types["id"])
	assert.Equal(t, SetOf(Prim("string")), types["tags"])
	assert.Equal(t, MapOf(Prim("integer")), types["counts"])
	assert.Equal(t, Prim("object"), types["extra"])
	assert.Equal(t, Prim("string"), types["raw"])
	assert.Equal(t, Prim("array"), types["anything"])
	assert.Equal(t, Prim("integer"), types["timeout"])
	assert.Equal(t, Optional(Prim("integer")), types["Score"])
	assert.NotContains(t, types, "internal")
	assert.NotContains(t, types, "Skipped")
	assert.NotContains(t, types, "-")

	var level FieldDescriptor
	for _, f := range models[0].Fields {
		if f.Name == "level" {
			level = f
		}
	}
	str, ok := level.Override.(*schema.StringType)
	require.True(t, ok)
	assert.Equal(t, []string{"low", "high"}, str.Enum)
}

func TestReflector_Describe_Cycle(t *testing.T) {
	models, err := NewReflector().Describe(Node{})
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, ListOf(Optional(Ref("Node"))), models[0].Fields[1].Type)
}

func TestReflector_CamelCase(t *testing.T) {
	type Pet struct {
		PetName  string
		OwnerID  string
		Override string `json:"kept_as_is"`
	}
	models, err := NewReflector(WithCamelCase()).Describe(reflect.TypeOf(Pet{}))
	require.NoError(t, err)

	var names []string
	for _, f := range models[0].Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"petName", "ownerID", "kept_as_is"}, names)
}

func TestReflector_Errors(t *testing.T) {
	_, err := NewReflector().Describe(nil)
	assert.Error(t, err)

	_, err = NewReflector().Describe(42)
	assert.Error(t, err)

	_, err = NewReflector().Describe(struct{ A int }{})
	assert.Error(t, err)

	type Bad struct {
		A int `schema:"minLength=3"`
	}
	_, err = NewReflector().Describe(Bad{})
	assert.ErrorIs(t, err, schema.ErrInvalidConstraint)
}

func TestModelName(t *testing.T) {
	name, err := ModelName([]*Movie{})
	require.NoError(t, err)
	assert.Equal(t, "Movie", name)
}

func TestFlatten(t *testing.T) {
	chars := 3
	movie := Movie{
		Main:       Actor{Name: "Ana", Sex: "F", Role: Role{Name: "Lead", Race: "Human"}, Age: 30},
		Title:      "Long Title",
		Characters: &chars,
		Budget:     1.5,
	}

	got := NewReflector().Flatten(movie)
	assert.Equal(t, map[string]any{
		"main": map[string]any{
			"name": "Ana",
			"sex":  "F",
			"role": map[string]any{"name": "Lead", "race": "Human"},
			"age":  30.0,
		},
		"title":      "Long Title",
		"characters": 3.0,
		"budget":     1.5,
	}, got)
}

func TestFlatten_DropsNilsNormalizeKeeps(t *testing.T) {
	movie := Movie{Title: "Long Title"}

	flat := NewReflector().Flatten(movie).(map[string]any)
	assert.NotContains(t, flat, "characters")

	raw := Normalize(map[string]any{"title": "x", "characters": nil})
	assert.Equal(t, map[string]any{"title": "x", "characters": nil}, raw)
}

func TestFlatten_Kitchen(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	k := Kitchen{
		Audit:   Audit{CreatedAt: created},
		ID:      id,
		Tags:    map[string]struct{}{"a": {}},
		Raw:     []byte("hi"),
		Timeout: time.Second,
	}

	flat := NewReflector().Flatten(k).(map[string]any)
	assert.Equal(t, "2024-01-02T03:04:05Z", flat["created_at"])
	assert.Equal(t, id.String(), flat["id"])
	assert.Equal(t, []any{"a"}, flat["tags"])
	assert.Equal(t, "aGk=", flat["raw"])
	assert.Equal(t, float64(time.Second), flat["timeout"])
	assert.NotContains(t, flat, "counts", "nil maps are dropped")
}

func TestNormalize_Batch(t *testing.T) {
	got := Normalize([]map[string]any{{"a": 1}, {"a": int64(2)}})
	assert.Equal(t, []any{map[string]any{"a": 1.0}, map[string]any{"a": 2.0}}, got)
}
