/*
Package observability provides tools for monitoring the toolshed.

It includes Prometheus metrics fed by the Toolbox lifecycle hooks, an HTTP
middleware that records request counts and latencies, and the handler that
exposes both on /metrics.
*/
package observability
