/*
Package ports defines the interfaces the simulator core and its adapters
are built against.

# Key Interfaces

  - Field: the walker-to-location registry driven by the walk executor.
  - FieldFactory: builds a fresh Field for each independent trial.
  - ResultCache: stores encoded responses of seeded API requests.

RunFieldContract and RunResultCacheContract verify that an implementation
honours the interface invariants.
*/
package ports
