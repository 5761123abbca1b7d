// Package store persists finished engine runs in SQLite.
//
// The engine itself is pure and owns no storage; this package exists so
// the rollup tables survive the process and the dashboard (or the top
// command) can read them later. One run maps to one row in runs plus
// its district_risk and state_risk rows, all written in a single
// transaction: a run is either fully persisted or not at all, matching
// the engine's no-partial-output rule.
//
// Stored runs are immutable. Re-scoring inserts a new run under a new
// run ID; readers default to the latest run.
package store
