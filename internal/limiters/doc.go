// Package limiters provides the Redis fixed-window throttles applied to
// one-time-code traffic.
//
// [OTPLimiter] counts send and verify requests per email. A zero limit turns
// the corresponding check off, and a nil *OTPLimiter allows everything.
//
// # What this package must NOT do
//
//   - Import insureAuth or any sibling internal package.
//   - Make policy decisions beyond counting; the engine decides consequences.
package limiters
