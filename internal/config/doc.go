/*
Package config loads experiment descriptions.

Files are YAML (or JSON when the extension is .json). They are parsed into a
generic map and decoded with mapstructure on top of Default, so a file only
needs the keys it changes:

	trials: 500
	steps: [10, 100, 1000]
	policies: [usual, cold-biased]
	seed: 42
	trace:
	  steps: 2000
	  wormholes: {holes: 100, x_range: 50, y_range: 50}
*/
package config
