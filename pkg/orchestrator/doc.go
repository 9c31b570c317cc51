// Package orchestrator wires the description → live form → request →
// submission pipeline, providing dependency injection friendly helpers for
// consumers that prefer a single entry point.
package orchestrator
