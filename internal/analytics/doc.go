// Package analytics turns a loaded games Dataset into chart-ready views.
//
// Every function here is pure: it reads the immutable Dataset and allocates a
// fresh result, so callers may invoke them concurrently without coordination.
// Orderings are deterministic. Ties keep dataset order for rankings and
// first-seen order for category counts.
package analytics
