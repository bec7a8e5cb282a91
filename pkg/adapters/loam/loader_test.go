package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/justschema/internal/testutils"
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/ports/tests"
)

func TestLoader_Contract(t *testing.T) {
	_, repo := testutils.SetupModelRepo(t, nil)
	ctx := context.Background()

	role := core.Document{
		ID: "role.md",
		Content: `---
name: Role
fields:
  - name: name
    type: str
---
A character in a movie`,
	}
	actor := core.Document{
		ID: "actor.md",
		Content: `---
name: Actor
fields:
  - name: name
    type: str
  - name: role
    type: Role
---
`,
	}
	require.NoError(t, repo.Save(ctx, role))
	require.NoError(t, repo.Save(ctx, actor))

	loader := New(loam.NewTypedRepository[ModelMetadata](repo))
	tests.ModelSourceContractTest(t, loader, []string{"Actor", "Role"})
}

func TestLoader_Models(t *testing.T) {
	_, repo := testutils.SetupModelRepo(t, map[string]string{
		"movie.md": `---
name: Movie
fields:
  - name: title
    type: str
    required: true
    schema:
      minLength: 4
  - name: released
    type: bool
    default: false
---
A story with plot and characters`,
		"Tag.json": `{
  "fields": [{"name": "label", "type": "str"}]
}`,
	})

	loader := New(loam.NewTypedRepository[ModelMetadata](repo))
	models, err := loader.Models(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)

	movie := models[0]
	assert.Equal(t, "Movie", movie.Name)
	assert.Equal(t, "A story with plot and characters", movie.Documentation, "the body documents the model")
	require.Len(t, movie.Fields, 2)
	assert.True(t, movie.Fields[0].Required)
	assert.NotNil(t, movie.Fields[0].Override)
	assert.True(t, movie.Fields[1].HasDefault)
	assert.Equal(t, model.Prim("boolean"), movie.Fields[1].Type)

	assert.Equal(t, "Tag", models[1].Name, "name defaults to the file name")
}

func TestLoader_DetectsCollisions(t *testing.T) {
	_, repo := testutils.SetupModelRepo(t, map[string]string{
		"a.md": `---
name: Role
---
`,
		"b.json": `{"name": "Role"}`,
	})

	loader := New(loam.NewTypedRepository[ModelMetadata](repo))
	_, err := loader.Models(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLoader_InvalidType(t *testing.T) {
	_, repo := testutils.SetupModelRepo(t, map[string]string{
		"bad.md": `---
name: Bad
fields:
  - name: x
    type: "list["
---
`,
	})

	loader := New(loam.NewTypedRepository[ModelMetadata](repo))
	_, err := loader.Models(context.Background())
	assert.Error(t, err)
}

func TestLoader_ReadsSavedDocuments(t *testing.T) {
	_, repo := testutils.SetupModelRepo(t, nil)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, core.Document{
		ID: "cast/lead.md",
		Content: `---
name: LeadActor
fields:
  - name: name
    type: str
---
The actor playing the main character`,
	}))

	loader := New(loam.NewTypedRepository[ModelMetadata](repo))
	models, err := loader.Models(ctx)
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "LeadActor", models[0].Name, "frontmatter name wins over the file name")
	assert.Equal(t, "The actor playing the main character", models[0].Documentation)
	require.Len(t, models[0].Fields, 1)
	assert.Equal(t, "name", models[0].Fields[0].Name)
}
