// Package domain defines the core domain models for kiwi.
//
// Domain models are pure values without IO dependencies:
//
//   - Entry: one stored key/value record with its expiry metadata
//   - Errors: DomainError and the error kinds shared by the store,
//     the services and both network front ends
package domain
