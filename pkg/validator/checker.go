package validator

import "strings"

// Violation is a constraint failure reported by a Checker.
type Violation struct {
	// Path holds the property segments leading to the failing value.
	Path    []string
	Message string
	// Keyword is the schema keyword that failed, when known.
	Keyword string
}

// ValidationError converts the violation into its dot-joined form.
func (v Violation) ValidationError() ValidationError {
	return ValidationError{Path: strings.Join(v.Path, "."), Message: v.Message}
}

// Checker is the external validator: it compiles a rendered schema document
// once and checks any number of generic JSON instances against it.
type Checker interface {
	Compile(doc map[string]any) (Compiled, error)
}

// Compiled is a schema ready to check instances. Implementations must be
// safe for concurrent use.
type Compiled interface {
	// Check returns every violation of instance. An empty result means the
	// instance is valid.
	Check(instance any) []Violation
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(doc map[string]any) (Compiled, error)

func (f CheckerFunc) Compile(doc map[string]any) (Compiled, error) { return f(doc) }

// CompiledFunc adapts a function to the Compiled interface.
type CompiledFunc func(instance any) []Violation

func (f CompiledFunc) Check(instance any) []Violation { return f(instance) }
