package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// SchemaRecord is a rendered schema document as persisted by a DocumentStore.
type SchemaRecord struct {
	Model    string    `json:"model"`
	Document []byte    `json:"document"`
	Digest   string    `json:"digest"`
	SavedAt  time.Time `json:"saved_at"`
}

// NewSchemaRecord stamps a rendered document with its digest and the current time.
func NewSchemaRecord(model string, document []byte) *SchemaRecord {
	return &SchemaRecord{
		Model:    model,
		Document: document,
		Digest:   Digest(document),
		SavedAt:  time.Now().UTC(),
	}
}

// Digest returns the hex SHA-256 of a rendered document.
func Digest(document []byte) string {
	sum := sha256.Sum256(document)
	return hex.EncodeToString(sum[:])
}
