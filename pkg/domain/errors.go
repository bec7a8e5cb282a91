package domain

import "errors"

// ErrDocumentNotFound is returned when no stored schema document exists for a model.
var ErrDocumentNotFound = errors.New("schema document not found")
