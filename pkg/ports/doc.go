/*
Package ports defines the driven ports (interfaces) for the tds engine.

These interfaces decouple the scoring pipeline from external implementations, allowing
the engine to read catalogs from and persist results to various backends.

# Key Interfaces

  - CatalogSource: Produces a raw catalog document (zones or focus personas) from memory, a file, HTTP or Loam.
  - ResultStore: Persists result snapshots so a finished evaluation can be revisited or shared.
  - AnswerStore: Persists in-progress answer sets so an interrupted quiz can resume.
  - Watchable: Implemented by sources that can signal a catalog change.
  - DistributedLocker: Serializes draft answer updates across replicas.
*/
package ports
