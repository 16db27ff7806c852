// Package memory provides the in-memory expiring key/value store for kiwi.
//
// A single mutex guards the whole key map. Every operation holds it for
// one map access plus the expiry comparison, so the expiry check and the
// eviction of an expired key are atomic with the read that observed them.
//
// Expiry is lazy: an expired entry stays in memory until a Get touches it.
// Keys that are written with a TTL and never read again are not reclaimed.
package memory
