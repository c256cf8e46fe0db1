// Package insureAuth provides the account and session engine of the
// insurance-policy platform: signup, login, one-time codes, password reset,
// logout and the authenticated-request gate.
//
// Sessions are stateless signed tokens (package jwt) paired with a Redis
// revocation list. A token is accepted only when it has no revocation entry
// and its signature and expiry verify; the two checks are independent.
//
// Engine methods are safe to call from multiple goroutines after
// [Builder.Build]. Errors are sentinel values classified with [KindOf];
// [PublicMessage] gives the client-safe text for any error.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or encoding details in its public API.
//   - Return secret hashes from any method.
//   - Import any sub-package that re-imports insureAuth (no import cycles).
package insureAuth
