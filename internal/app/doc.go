// Package app wires the configured components together: the unit table,
// aisle configuration, recipe index, resolver and report evaluator. It
// owns the logger and is independent of any entrypoint like a CLI or
// server.
package app
