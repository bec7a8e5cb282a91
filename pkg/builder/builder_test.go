package builder

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/justschema/pkg/domain"
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/registry"
	"github.com/aretw0/justschema/pkg/schema"
)

var (
	role = model.Model("Role", "",
		model.Field("name", model.Prim("string")),
		model.Field("race", model.Prim("string")),
	)
	actor = model.Model("Actor", "A person that can play movie characters",
		model.Field("name", model.Prim("string")),
		model.Field("sex", model.Prim("string")),
		model.Field("role", model.Ref("Role")),
		model.Field("age", model.Prim("integer"), model.WithDefault(10)),
	)
	movie = model.Model("Movie", "A story with plot and characters",
		model.Field("main", model.Ref("Actor"), model.Doc("Actor playing the main character")),
		model.Field("title", model.Prim("string"), model.Required(), model.WithDefault("NA"),
			model.WithSchema(schema.Must(schema.String(
				schema.MinLength(4), schema.MaxLength(24), schema.Description("Formal title of the movie"))))),
		model.Field("released", model.Prim("boolean"), model.WithDefault(false)),
		model.Field("characters", model.Prim("integer"), model.WithDefault(100)),
		model.Field("budget", model.Prim("number"), model.WithDefault(100000)),
	)
)

func renderMap(t *testing.T, obj *schema.ObjectType) map[string]any {
	t.Helper()
	out, err := json.Marshal(schema.Render(obj))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	return m
}

func TestBuild_Primitives(t *testing.T) {
	reg := registry.NewRegistry()
	obj, err := New(reg).Build(context.Background(), role)
	require.NoError(t, err)

	doc := renderMap(t, obj)
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, "Role", doc["title"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.Equal(t, []any{"name", "race"}, doc["required"])

	props := doc["properties"].(map[string]any)
	assert.Len(t, props, 2)
	assert.Contains(t, props, "name")
	assert.Contains(t, props, "race")
	assert.NotContains(t, doc, "definitions", "empty definitions are omitted")

	assert.True(t, obj.Sealed())
	assert.True(t, reg.Has("Role"))
}

func TestBuild_RequiredRule(t *testing.T) {
	reg := registry.NewRegistry()
	_, err := New(reg).BuildAll(context.Background(), role, actor, movie)
	require.NoError(t, err)

	obj, err := reg.Lookup("Movie")
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "title"}, obj.Required(),
		"fields without default plus explicitly required ones, in declaration order")

	obj, _ = reg.Lookup("Actor")
	assert.Equal(t, []string{"name", "sex", "role"}, obj.Required())
}

func TestBuild_Descriptions(t *testing.T) {
	reg := registry.NewRegistry()
	_, err := New(reg).BuildAll(context.Background(), role, actor, movie)
	require.NoError(t, err)

	obj, _ := reg.Lookup("Movie")
	doc := renderMap(t, obj)
	assert.Equal(t, "A story with plot and characters", doc["description"])

	props := doc["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"$ref": "#/definitions/Actor", "description": "Actor playing the main character"}, props["main"])
	assert.Equal(t, "Formal title of the movie", props["title"].(map[string]any)["description"])
}

func TestBuild_TransitiveDefinitions(t *testing.T) {
	reg := registry.NewRegistry()
	b := New(reg)
	ctx := context.Background()

	_, err := b.Build(ctx, role)
	require.NoError(t, err)
	_, err = b.Build(ctx, actor)
	require.NoError(t, err)
	obj, err := b.Build(ctx, movie)
	require.NoError(t, err)

	assert.Equal(t, []string{"Role", "Actor"}, obj.DefinitionNames())

	defs := renderMap(t, obj)["definitions"].(map[string]any)
	assert.Len(t, defs, 2)
	for name, def := range defs {
		assert.NotContains(t, def.(map[string]any), "definitions", "definition %s must be flat", name)
	}
}

func TestBuild_Containers(t *testing.T) {
	reg := registry.NewRegistry()
	manager := model.Model("Manager", "",
		model.Field("actors", model.ListOf(model.Ref("Actor"))),
		model.Field("movies", model.SetOf(model.Ref("Movie"))),
		model.Field("lookup", model.MapOf(model.Ref("Role"))),
		model.Field("lead", model.Optional(model.Ref("Actor")), model.WithDefault(nil)),
	)
	_, err := New(reg).BuildAll(context.Background(), role, actor, movie, manager)
	require.NoError(t, err)

	obj, _ := reg.Lookup("Manager")
	assert.ElementsMatch(t, []string{"Role", "Actor", "Movie"}, obj.DefinitionNames())
	assert.Equal(t, []string{"actors", "movies", "lookup"}, obj.Required())

	props := renderMap(t, obj)["properties"].(map[string]any)
	assert.Equal(t, map[string]any{
		"type":        "array",
		"items":       map[string]any{"$ref": "#/definitions/Movie"},
		"minItems":    1.0,
		"uniqueItems": true,
	}, props["movies"])
	assert.Equal(t, map[string]any{"$ref": "#/definitions/Actor"}, props["lead"])
}

func TestBuild_SelfReference(t *testing.T) {
	reg := registry.NewRegistry()
	node := model.Model("Node", "",
		model.Field("value", model.Prim("string")),
		model.Field("children", model.ListOf(model.Ref("Node")), model.WithDefault(nil)),
	)

	obj, err := New(reg).Build(context.Background(), node)
	require.NoError(t, err)
	assert.Equal(t, []string{"Node"}, obj.DefinitionNames())

	def, _ := obj.Definition("Node")
	assert.Empty(t, def.DefinitionNames())
}

func TestBuild_MutualReference(t *testing.T) {
	reg := registry.NewRegistry()
	person := model.Model("Person", "",
		model.Field("employer", model.Optional(model.Ref("Company")), model.WithDefault(nil)))
	company := model.Model("Company", "",
		model.Field("staff", model.ListOf(model.Ref("Person"))))

	built, err := New(reg).BuildAll(context.Background(), person, company)
	require.NoError(t, err)

	for _, obj := range built {
		assert.ElementsMatch(t, []string{"Person", "Company"}, obj.DefinitionNames())
	}
}

func TestBuild_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate in registry", func(t *testing.T) {
		reg := registry.NewRegistry()
		b := New(reg)
		_, err := b.Build(ctx, role)
		require.NoError(t, err)

		_, err = b.Build(ctx, role)
		assert.ErrorIs(t, err, schema.ErrDuplicateModel)
	})

	t.Run("duplicate in batch", func(t *testing.T) {
		reg := registry.NewRegistry()
		_, err := New(reg).BuildAll(ctx, role, role)
		assert.ErrorIs(t, err, schema.ErrDuplicateModel)
		assert.Equal(t, 0, reg.Len())
	})

	t.Run("unknown type", func(t *testing.T) {
		reg := registry.NewRegistry()
		bad := model.Model("Bad", "", model.Field("c", model.Prim("complex128")))
		_, err := New(reg).Build(ctx, bad)

		var unknown *schema.UnknownTypeError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "complex128", unknown.Type)
		assert.False(t, reg.Has("Bad"))
	})

	t.Run("unresolved reference leaves batch unregistered", func(t *testing.T) {
		reg := registry.NewRegistry()
		dangling := model.Model("Dangling", "", model.Field("ghost", model.Ref("Ghost")))
		_, err := New(reg).BuildAll(ctx, role, dangling)

		assert.ErrorIs(t, err, schema.ErrUnresolvedReference)
		assert.Equal(t, 0, reg.Len())
	})

	t.Run("empty batch", func(t *testing.T) {
		_, err := New(registry.NewRegistry()).BuildAll(ctx)
		assert.Error(t, err)
	})
}

func TestBuild_Options(t *testing.T) {
	reg := registry.NewRegistry()
	var events []*domain.ModelEvent
	var logs bytes.Buffer

	b := New(reg,
		WithAdditionalProperties(true),
		WithDialect("http://json-schema.org/draft-07/schema#"),
		WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithHooks(domain.LifecycleHooks{
			OnModelRegistered: func(_ context.Context, e *domain.ModelEvent) { events = append(events, e) },
		}),
	)
	obj, err := b.Build(context.Background(), role)
	require.NoError(t, err)

	doc := renderMap(t, obj)
	assert.Equal(t, true, doc["additionalProperties"])
	assert.Equal(t, "http://json-schema.org/draft-07/schema#", doc["$schema"])

	require.Len(t, events, 1)
	assert.Equal(t, "Role", events[0].Model)
	assert.Equal(t, 2, events[0].Fields)
	assert.Contains(t, logs.String(), "model=Role")
}
