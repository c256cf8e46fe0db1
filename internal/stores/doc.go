// Package stores provides the Redis-backed, short-lived records behind
// one-time codes and token revocation.
//
// # Design
//
// OTP entries keep the legacy layout: the value is the code itself with a
// TTL, so entries written by the previous deployment stay readable.
// Revocation entries carry a versioned binary record (reason, revokedAt).
// Callers only depend on their existence, so foreign values still count as
// revoked.
//
// Every Redis failure is wrapped in the store's Unavailable sentinel; a miss
// is reported separately so callers can tell "absent" from "cache down".
//
// # What this package must NOT do
//
//   - Import insureAuth or any sibling internal package.
//   - Generate codes or make authentication decisions.
package stores
