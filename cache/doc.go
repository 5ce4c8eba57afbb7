// Package cache provides a small TTL-bounded in-memory cache used to memoize
// token validations and other cheap-to-recompute lookups.
//
// Keys are derived with SHA-256 (see Key) so raw credentials never appear as
// map keys or in diagnostics.
package cache
