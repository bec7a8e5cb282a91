/*
Package ports defines the driven ports (interfaces) of the schema engine.

These interfaces decouple the engine from storage backends and model
repositories.

# Key Interfaces

  - DocumentStore: persists rendered schema documents (memory, file, Redis).
  - ModelSource: supplies model descriptors (definition files, Loam repositories).
*/
package ports
