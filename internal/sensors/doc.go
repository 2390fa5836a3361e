// Package sensors owns the sensor values that measurements reference.
//
// A Registry maps stable string IDs to *S. Measurements hold the pointer;
// the ID is what gets persisted and what Validate uses to confirm that every
// sensor a measurement points at is still part of the collection. The
// registry must outlive every measurement built from it.
package sensors
