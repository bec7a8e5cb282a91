/*
Package observability provides lifecycle hooks for monitoring the schema engine.

Metrics records model registrations and validation runs as Prometheus
collectors; LoggingHooks writes the same events to a structured logger.
Combine them with domain.Chain.
*/
package observability
