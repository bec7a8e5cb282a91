package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/justschema/internal/logging"
	"github.com/aretw0/justschema/pkg/model"
	"github.com/aretw0/justschema/pkg/schema"
)

// CreateLogger builds the stderr logger for a --log-level value.
func CreateLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// ReadData decodes an instance file, or stdin for "-". JSON numbers keep
// their literal form; the format follows the extension and defaults to JSON
// for stdin.
func ReadData(path string, stdin io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read instance data: %w", err)
	}
	if path == "-" {
		return decodeJSON(data)
	}
	return DecodeData(data, model.FormatFromPath(path))
}

// DecodeData decodes a JSON or YAML instance document.
func DecodeData(data []byte, format model.Format) (any, error) {
	if format == model.FormatJSON {
		return decodeJSON(data)
	}
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse YAML data: %w", err)
	}
	return out, nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse JSON data: %w", err)
	}
	return out, nil
}

// WriteDocument writes doc as indented JSON or as YAML.
func WriteDocument(w io.Writer, doc *schema.Document, format string) error {
	switch strings.ToLower(format) {
	case "", "json":
		out, err := RenderJSON(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case "yaml", "yml":
		out, err := doc.YAML()
		if err != nil {
			return fmt.Errorf("failed to render YAML: %w", err)
		}
		_, err = w.Write(out)
		return err
	}
	return fmt.Errorf("unknown output format %q (want json or yaml)", format)
}

// RenderJSON is the canonical stored form of a document: two-space indent and
// a trailing newline.
func RenderJSON(doc *schema.Document) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render JSON: %w", err)
	}
	return append(out, '\n'), nil
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of w, or 0 when it is not a terminal.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
