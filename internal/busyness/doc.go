// Package busyness turns a fetched event list into per-day load buckets and
// flags days whose total busy time stands out against a rolling baseline.
package busyness
