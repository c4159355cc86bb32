// Package metrics measures particle snapshots. Every metric satisfies the
// runner's Metric interface: Observe replaces the current value and Value
// reports the most recent observation.
package metrics
