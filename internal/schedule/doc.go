// Package schedule implements the availability engine: aggregation of
// per-calendar busy periods into a mutual free timeline, discovery of
// candidate slots under working-hours and not-before-now constraints, and a
// mutual scheduler that books at most one event per invocation.
//
// Everything except Scheduler.Schedule is a pure computation over inputs the
// caller has already fetched; Schedule performs exactly two collaborator
// calls at most, one free/busy fetch and one event create.
package schedule
