package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/justschema/internal/testutils"
)

const definitions = `
models:
  - name: Role
    fields:
      - name: name
        type: str
  - name: Actor
    description: A person that can play movie characters
    fields:
      - name: name
        type: str
        schema:
          minLength: 2
      - name: role
        type: Role
`

// run executes the root command with fresh flag values and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func setup(t *testing.T) (dir, defs string) {
	t.Helper()
	dir = t.TempDir()
	defs = filepath.Join(dir, "models.yaml")
	require.NoError(t, os.WriteFile(defs, []byte(definitions), 0644))
	return dir, defs
}

func TestModelsAndShow(t *testing.T) {
	_, defs := setup(t)

	out, err := run(t, "models", "--file", defs)
	require.NoError(t, err)
	assert.Equal(t, "Role\nActor\n", out, "registration order")

	out, err = run(t, "show", "Actor", "--file", defs)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Actor", doc["title"])
	assert.Contains(t, doc["definitions"], "Role")

	out, err = run(t, "show", "Role", "--file", defs, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Role")

	_, err = run(t, "show", "Ghost", "--file", defs)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	dir, defs := setup(t)
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`{"name":"Keanu","role":{"name":"Neo"}}`), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("name: K\nrole: {}\n"), 0644))

	out, err := run(t, "validate", "Actor", good, "--file", defs)
	require.NoError(t, err)
	assert.Contains(t, out, "valid Actor")

	out, err = run(t, "validate", "Actor", bad, "--file", defs)
	require.Error(t, err)
	assert.Contains(t, out, "Actor: 2 validation errors")
	assert.Contains(t, out, "role")
}

func TestDescribe(t *testing.T) {
	_, defs := setup(t)

	out, err := run(t, "describe", "Actor", "--file", defs)
	require.NoError(t, err)
	assert.Contains(t, out, "# Actor")
	assert.Contains(t, out, "A person that can play movie characters")
}

func TestExportAndDiff(t *testing.T) {
	dir, defs := setup(t)
	storePath := filepath.Join(dir, "schemas")

	_, err := run(t, "diff", "Actor", "--file", defs, "--path", storePath)
	require.Error(t, err, "never exported")

	out, err := run(t, "export", "--file", defs, "--path", storePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Actor")
	assert.Contains(t, out, "Role")
	assert.FileExists(t, filepath.Join(storePath, "Actor.json"))

	out, err = run(t, "diff", "Actor", "--file", defs, "--path", storePath)
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	out, err = run(t, "diff", "Actor", "--file", defs, "--path", storePath, "--additional")
	require.Error(t, err)
	assert.Contains(t, out, "~additionalProperties")

	_, err = run(t, "export", "--file", defs, "--store", "s3")
	assert.Error(t, err)
}

func TestModelsFromRepository(t *testing.T) {
	dir, _ := testutils.SetupModelRepo(t, map[string]string{
		"role.md": "---\nname: Role\nfields:\n  - name: name\n    type: str\n---\nA character\n",
	})

	out, err := run(t, "models", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "Role\n", out)

	_, err = run(t, "serve", "--file", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "justschema version")
}

func TestMissingSource(t *testing.T) {
	_, err := run(t, "models")
	assert.Error(t, err)
}
