package tests

import (
	"context"
	"testing"

	"github.com/aretw0/justschema/pkg/ports"
)

// ModelSourceContractTest is a reusable test suite that verifies if an adapter
// complies with ports.ModelSource. want lists the model names the source must
// return, in order.
func ModelSourceContractTest(t *testing.T, source ports.ModelSource, want []string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Models_Names", func(t *testing.T) {
		models, err := source.Models(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing models: %v", err)
		}
		if len(models) != len(want) {
			t.Fatalf("expected %d models, got %d", len(want), len(models))
		}
		for i, m := range models {
			if m.Name != want[i] {
				t.Errorf("model %d: got %q, want %q", i, m.Name, want[i])
			}
		}
	})

	t.Run("Models_Fields", func(t *testing.T) {
		models, err := source.Models(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing models: %v", err)
		}
		for _, m := range models {
			seen := map[string]bool{}
			for _, f := range m.Fields {
				if f.Name == "" {
					t.Errorf("model %s has a field without a name", m.Name)
				}
				if seen[f.Name] {
					t.Errorf("model %s declares %s twice", m.Name, f.Name)
				}
				if f.Type == nil {
					t.Errorf("model %s, field %s has no type", m.Name, f.Name)
				}
				seen[f.Name] = true
			}
		}
	})

	t.Run("Models_Repeatable", func(t *testing.T) {
		first, err := source.Models(ctx)
		if err != nil {
			t.Fatal(err)
		}
		second, err := source.Models(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(first) != len(second) {
			t.Errorf("second listing returned %d models, first %d", len(second), len(first))
		}
	})
}
