package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	ErrUnknownType         = errors.New("unknown type")
	ErrDuplicateModel      = errors.New("duplicate model")
	ErrUnknownModel        = errors.New("unknown model")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrInvalidConstraint   = errors.New("invalid constraint")
	ErrSealed              = errors.New("object schema is sealed")
)

// UnknownTypeError reports a declared type without a resolution rule.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q", e.Type)
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

// DuplicateModelError reports a model name registered twice.
type DuplicateModelError struct {
	Model string
}

func (e *DuplicateModelError) Error() string {
	return fmt.Sprintf("model %q is already registered", e.Model)
}

func (e *DuplicateModelError) Is(target error) bool { return target == ErrDuplicateModel }

// UnknownModelError reports a lookup of a model that was never registered.
type UnknownModelError struct {
	Model string
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("model %q is not registered", e.Model)
}

func (e *UnknownModelError) Is(target error) bool { return target == ErrUnknownModel }

// UnresolvedReferenceError reports a reference whose target model is absent.
type UnresolvedReferenceError struct {
	Ref string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("reference %q does not point to a registered model", e.Ref)
}

func (e *UnresolvedReferenceError) Is(target error) bool { return target == ErrUnresolvedReference }

// ConstraintError is returned when a node option is rejected at construction.
type ConstraintError struct {
	Keyword string // Constraint keyword, e.g. "multipleOf"
	Reason  string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Keyword, e.Reason)
}

func (e *ConstraintError) Is(target error) bool { return target == ErrInvalidConstraint }

func constraintErr(keyword, format string, args ...any) error {
	return &ConstraintError{Keyword: keyword, Reason: fmt.Sprintf(format, args...)}
}
