package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/justschema/internal/presentation/tui"
	"github.com/aretw0/justschema/pkg/validator"
)

// PrintValidation reports the outcome of a validation run and returns err
// unchanged so callers can derive the exit code from it.
func PrintValidation(w io.Writer, model string, err error, p *tui.Palette) error {
	if err == nil {
		fmt.Fprintf(w, "%s %s\n", p.Success("✔"), fmt.Sprintf("valid %s", model))
		return nil
	}

	var agg *validator.AggregateValidationError
	if !errors.As(err, &agg) {
		fmt.Fprintf(w, "%s %v\n", p.Failure("✘"), err)
		return err
	}

	noun := "errors"
	if len(agg.Errors) == 1 {
		noun = "error"
	}
	fmt.Fprintf(w, "%s %s: %d validation %s\n", p.Failure("✘"), model, len(agg.Errors), noun)
	for _, ve := range agg.Errors {
		path := ve.Path
		if path == "" {
			path = "(root)"
		}
		fmt.Fprintf(w, "  %s %s\n", p.Path(path), ve.Message)
	}
	return err
}
