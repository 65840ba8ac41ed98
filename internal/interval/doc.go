// Package interval provides the time-range primitives the scheduling engine
// is built on: a validated half-open Interval value type and a normalized,
// disjoint Timeline with merge, complement, and intersection operations.
//
// All operations are pure; they take and return values and never mutate
// their inputs.
package interval
