/*
Package domain contains the plain data types shared by the engine and its adapters.

It is kept free of I/O and of any dependency on the schema node model, so that
stores, transports and observability code can depend on it alone.

# Key Entities

  - SchemaRecord: a rendered schema document as persisted by a document store.
  - DocumentDiff: the keys that changed between two renderings of a model.
  - ModelEvent / ValidationEvent: payloads passed to LifecycleHooks.
*/
package domain
