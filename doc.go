/*
Package drunkard is a Monte-Carlo simulator of biased two-dimensional random walks.

It studies how the distance from the origin grows with the number of steps and
how that growth depends on the step policy a walker follows. Each trial places
a fresh walker at the origin of a fresh field, walks it a fixed number of
steps and records how far it ended up; batches of trials are summarized with
their mean, population standard deviation and coefficient of variation.

# Concept

A Walker draws each step uniformly from the candidate table of its Policy:

  - Isotropic4: one unit north, south, east or west.
  - ColdBiased: like Isotropic4 but the southward step has length two.
  - EastWest2: one unit east or west only.

A Field tracks where every walker is. An anomaly field adds wormholes: landing
exactly on a wormhole source sends the walker to the wormhole's destination.

# Reproducibility

All randomness derives from one master source owned by the Simulator. Build it
WithSeed (or WithRand) and the same calls return the same outcomes, whatever
the number of workers.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/drunkard"
		"github.com/aretw0/drunkard/pkg/domain"
	)

	func main() {
		sim, err := drunkard.New(drunkard.WithSeed(42))
		if err != nil {
			log.Fatal(err)
		}

		sweep, err := sim.Sweep(context.Background(), []int{10, 100, 1000}, 100, domain.ColdBiased)
		if err != nil {
			log.Fatal(err)
		}
		for _, pt := range sweep.Points {
			fmt.Printf("%d steps: mean=%.2f cv=%.2f\n", pt.Steps, pt.Summary.Mean, pt.Summary.CV)
		}
	}
*/
package drunkard
