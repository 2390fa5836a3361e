// Package sqlite contains SQLite repository implementations for the
// measurement log.
//
// Rows store sensor IDs, never sensor values: decoding resolves them through
// a sensors.Registry, so a log can only be replayed against a registry that
// still holds every sensor it mentions. Variables are stored as JSON
// coefficient arrays produced by a variables.Codec.
package sqlite
