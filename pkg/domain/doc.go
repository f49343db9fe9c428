/*
Package domain contains the core value types of the random-walk simulator.

It defines the spatial model and the walker abstraction, and is kept free of
I/O so that fields, executors and adapters can share it.

# Key Entities

  - Location: an immutable point with translation and Euclidean distance.
  - Policy: a closed set of step distributions (Isotropic4, ColdBiased, EastWest2).
  - Walker: an entity that draws steps from a Policy using an injected random source.
  - LifecycleHooks: callbacks fired while batches of trials run.
*/
package domain
