// Package runtime drives a single walker through a field step by step.
package runtime
