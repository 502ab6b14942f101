// Package snapshot provides the plain-data layer of the snapshot engine:
// deep cloning restricted to the JSON-safe value set (with the offending
// path reported on rejection), structural equality, JSON marshaling, path
// addressing over the marshaled form, and structural diffing.
//
// The model package drives serialization (walking configurations and the
// identifier registry); this package only deals with the resulting plain
// data, so it stays free of any entity dependency.
package snapshot
