// Package engine implements the ARIS risk scoring engine.
//
// The engine is a pure batch transform: three monthly metric tables
// (biometric updates, demographic updates, enrolments) go in, two risk
// rollup tables (district, state) come out. Nothing is persisted or
// shared between runs; every run recomputes everything from scratch.
//
// PIPELINE:
//
//  1. Aggregate each family to one row per (state, district, year, month)
//  2. Left-join demographic and enrolment aggregates onto the biometric
//     aggregate, filling absent values with zero
//  3. Derive smoothed update rates and age skews
//  4. Compute month-over-month rate volatility per region
//  5. Combine indicators into a weighted risk signal and percentile-rank
//     it across all observations
//  6. Roll the per-month percentile up to district and state means
//
// The stages run strictly in that order. Determinism matters more than
// throughput here: identical inputs must produce byte-identical outputs,
// so every grouping step sorts its keys and the percentile ranking uses
// a stable sort with average ranks for ties.
//
// The risk percentage is a relative measure. It ranks a region-month
// against all other observations in the same run and is not comparable
// across runs with different record populations.
package engine
