package justschema_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/justschema"
	"github.com/aretw0/justschema/pkg/domain"
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/schema"
	"github.com/aretw0/justschema/pkg/validator"
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

type Contact struct {
	Email string `json:"email" schema:"format=email"`
}

func lead() Actor {
	return Actor{Name: "Brigitte", Sex: "f", Role: Role{Name: "Maria", Race: "robot"}}
}

func newEngine(t *testing.T, opts ...justschema.Option) *justschema.Engine {
	t.Helper()
	eng := justschema.New(opts...)
	require.NoError(t, eng.DefineStruct(context.Background(), Movie{}))
	return eng
}

func TestEngine_DefineStruct(t *testing.T) {
	eng := newEngine(t)
	assert.Equal(t, []string{"Role", "Actor", "Movie"}, eng.Models())

	doc, err := eng.ShowSchema(Movie{})
	require.NoError(t, err)
	m := doc.Map()
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, []any{"main", "title"}, m["required"])
	assert.Equal(t, []string{"Role", "Actor"}, definitionNames(doc))

	props := m["properties"].(map[string]any)
	assert.Equal(t, map[string]any{
		"type":      "string",
		"default":   "NA",
		"minLength": int64(4),
		"maxLength": int64(24),
	}, props["title"])
	assert.Equal(t, "#/definitions/Actor", props["main"].(map[string]any)["$ref"])
}

func TestEngine_DefineStruct_ReusesRegistered(t *testing.T) {
	eng := newEngine(t)
	require.NoError(t, eng.DefineStruct(context.Background(), Manager{}))
	assert.Equal(t, []string{"Role", "Actor", "Movie", "Manager"}, eng.Models())

	err := eng.DefineStruct(context.Background(), &Movie{})
	var dup *schema.DuplicateModelError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Movie", dup.Model)
}

func TestEngine_ShowSchema_Forms(t *testing.T) {
	eng := newEngine(t)

	byName, err := eng.ShowSchema("Movie")
	require.NoError(t, err)
	byType, err := eng.ShowSchema(reflect.TypeOf(Movie{}))
	require.NoError(t, err)
	byPtr, err := eng.ShowSchema(&Movie{})
	require.NoError(t, err)

	a, _ := byName.JSON()
	b, _ := byType.JSON()
	c, _ := byPtr.JSON()
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)

	again, _ := eng.ShowSchema("Movie")
	d, _ := again.JSON()
	assert.Equal(t, a, d, "rendering is idempotent")

	node, err := eng.ShowSchema(schema.Must(schema.Integer(schema.Minimum(1))))
	require.NoError(t, err)
	if diff := cmp.Diff(map[string]any{"type": "integer", "minimum": int64(1)}, node.Map()); diff != "" {
		t.Errorf("node render mismatch (-want +got):\n%s", diff)
	}

	_, err = eng.ShowSchema("Ghost")
	assert.ErrorIs(t, err, schema.ErrUnknownModel)
}

func TestEngine_Validate(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, eng.Validate(ctx, Movie{Title: "Metropolis", Main: lead()}))
	})

	t.Run("title too short", func(t *testing.T) {
		err := eng.Validate(ctx, Movie{Title: "T", Main: lead()})
		errs := validator.ValidationErrors(err)
		require.Len(t, errs, 1)
		assert.Equal(t, "title", errs[0].Path)
	})

	t.Run("batch keeps input order", func(t *testing.T) {
		batch := []Movie{
			{Title: "T", Main: lead()},
			{Title: "Metropolis", Main: lead()},
			{Title: "A title that is far too long to fit", Main: lead()},
		}
		err := eng.Validate(ctx, batch)

		var aggr *validator.AggregateValidationError
		require.ErrorAs(t, err, &aggr)
		assert.Equal(t, "Movie", aggr.Model)
		require.Len(t, aggr.Errors, 2)
		assert.Equal(t, []string{"title", "title"}, aggr.Paths())
		assert.Contains(t, aggr.Errors[0].Message, "4")
		assert.Contains(t, aggr.Errors[1].Message, "24")
	})

	t.Run("unregistered type", func(t *testing.T) {
		err := eng.Validate(ctx, Manager{})
		var unknown *schema.UnknownModelError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "Manager", unknown.Model)
	})

	t.Run("not a struct", func(t *testing.T) {
		assert.Error(t, eng.Validate(ctx, 42))
	})
}

func TestEngine_ValidateRaw(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	err := eng.ValidateRaw(ctx, "Movie", map[string]any{"title": "T"})
	errs := validator.ValidationErrors(err)
	require.Len(t, errs, 2, "two independent violations")
	assert.Equal(t, "title", errs[0].Path)
	assert.Equal(t, "", errs[1].Path)

	err = eng.ValidateRaw(ctx, Movie{}, map[string]any{
		"title": "Metropolis",
		"main": map[string]any{
			"name": "Brigitte", "sex": "f", "age": "old",
			"role": map[string]any{"name": "Maria", "race": "robot"},
		},
	})
	errs = validator.ValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "main.age", errs[0].Path)

	err = eng.ValidateRaw(ctx, schema.Must(schema.String(schema.MinLength(2))), "a")
	errs = validator.ValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "", errs[0].Path)

	err = eng.ValidateRaw(ctx, "Ghost", map[string]any{})
	var unknown *schema.UnknownModelError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Ghost", unknown.Model)
}

func TestEngine_Options(t *testing.T) {
	ctx := context.Background()

	t.Run("additional properties", func(t *testing.T) {
		strict := newEngine(t)
		open := newEngine(t, justschema.WithAdditionalProperties(true))
		data := map[string]any{"title": "Metropolis", "year": 1927, "main": map[string]any{
			"name": "Brigitte", "sex": "f", "role": map[string]any{"name": "Maria", "race": "robot"},
		}}

		assert.Len(t, validator.ValidationErrors(strict.ValidateRaw(ctx, "Movie", data)), 1)
		assert.NoError(t, open.ValidateRaw(ctx, "Movie", data))
	})

	t.Run("format assertion", func(t *testing.T) {
		loose := justschema.New()
		require.NoError(t, loose.DefineStruct(ctx, Contact{}))
		assert.NoError(t, loose.Validate(ctx, Contact{Email: "nope"}))

		strict := justschema.New(justschema.WithFormatAssertion())
		require.NoError(t, strict.DefineStruct(ctx, Contact{}))
		assert.Error(t, strict.Validate(ctx, Contact{Email: "nope"}))
		assert.NoError(t, strict.Validate(ctx, Contact{Email: "ada@example.com"}))
	})

	t.Run("dialect and camel case", func(t *testing.T) {
		type Plain struct{ FirstName string }
		eng := justschema.New(
			justschema.WithDialect("http://json-schema.org/draft-07/schema#"),
			justschema.WithCamelCase(),
		)
		require.NoError(t, eng.DefineStruct(ctx, Plain{}))
		doc, err := eng.ShowSchema("Plain")
		require.NoError(t, err)
		m := doc.Map()
		assert.Equal(t, "http://json-schema.org/draft-07/schema#", m["$schema"])
		assert.Contains(t, m["properties"], "firstName")
	})

	t.Run("hooks", func(t *testing.T) {
		var registered []string
		var validations int
		eng := newEngine(t, justschema.WithLifecycleHooks(domain.LifecycleHooks{
			OnModelRegistered: func(_ context.Context, e *domain.ModelEvent) { registered = append(registered, e.Model) },
			OnValidation:      func(_ context.Context, e *domain.ValidationEvent) { validations++ },
		}))
		_ = eng.Validate(ctx, Movie{Title: "T", Main: lead()})

		assert.Equal(t, []string{"Role", "Actor", "Movie"}, registered)
		assert.Equal(t, 1, validations)
	})
}

func TestEngine_DefineFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
models:
  - name: Person
    description: Someone
    fields:
      - name: name
        type: str
        schema:
          minLength: 1
      - name: friends
        type: list[Person]
        optional: true
`), 0o644))

	eng := justschema.New()
	built, err := eng.DefineFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, built, 1)
	assert.Equal(t, []string{"Person"}, built[0].DefinitionNames())

	err = eng.ValidateRaw(context.Background(), "Person", map[string]any{
		"name":    "Ada",
		"friends": []any{map[string]any{"name": ""}},
	})
	errs := validator.ValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "friends.0.name", errs[0].Path)

	_, err = eng.DefineFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEngine_DefineBatch(t *testing.T) {
	eng := justschema.New()
	_, err := eng.Define(context.Background(),
		model.Model("Person", "", model.Field("employer", model.Optional(model.Ref("Company")), model.WithDefault(nil))),
		model.Model("Company", "", model.Field("staff", model.ListOf(model.Ref("Person")))),
	)
	require.NoError(t, err)

	doc, err := eng.ShowSchema("Company")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Person", "Company"}, definitionNames(doc))
}

func definitionNames(doc *schema.Document) []string {
	defs, ok := doc.Get("definitions")
	if !ok {
		return nil
	}
	return defs.(*schema.Document).Keys()
}
