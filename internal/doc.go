// Package internal holds helpers private to insureAuth.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - limiters: fixed-window throttles for one-time-code traffic
//   - stores: Redis-backed one-time-code and revocation records
//   - config: process configuration loaded from the environment
//   - logging: zerolog construction
//
// # What this package must NOT do
//
//   - Export types that appear in the public insureAuth API.
//   - Be imported by any package outside the insureAuth module.
package internal
