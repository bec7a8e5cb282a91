// Package resolver turns declared field types into schema nodes and hoists
// the models they reference into a flat definitions table.
package resolver
