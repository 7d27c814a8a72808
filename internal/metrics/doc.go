// Package metrics defines the Prometheus collectors exposed at /metrics by
// the serve command.
package metrics
