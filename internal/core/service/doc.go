// Package service provides domain services for kiwi.
//
// Services hold the operations shared by the network front ends and define
// the storage interface they depend on, so the RESP server and the HTTP
// facade apply identical semantics to the same store.
//
// This package contains:
//
//   - KVService: get/set/delete over a Repository, with expiry folded
//     into "not found"
//   - RateLimiterRegistry: per-client token bucket limiters
package service
