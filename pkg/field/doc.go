/*
Package field implements the walker registry walkers move in.

A plain Field only tracks locations. Installing a Redirector turns it into an
anomaly field: after every move the new position is checked against the
redirection rules, and a hit relocates the walker once. Wormholes is the
randomly generated redirection table used by NewAnomaly.
*/
package field
