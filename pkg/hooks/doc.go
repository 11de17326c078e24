// Package hooks collects the acknowledgements a remote operation runner
// sends back after executing requested operations.
//
// An Aggregator keeps two append-only logs, one for successful operations
// and one for failed operations, in arrival order. Only the runner
// configured at instantiation may append. Logs can be queried in full or
// page by page, and exported to brotli-compressed JSON snapshots.
//
// A Feed subscribes to a runner's socket.io event stream and records the
// hook-success and hook-error events it receives.
package hooks
