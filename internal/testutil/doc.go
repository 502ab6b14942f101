// Package testutil provides fluent builders and capture helpers shared by
// the statetree test suites. It is internal: the builders trade strictness
// for brevity and are not part of the public API surface.
package testutil
