// Package audit records who signed up, logged in, reset a password or had a
// token revoked, without putting the sink on the request path.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, zerolog, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: structured audit record with timestamp, type, user, email, IP, metadata.
//
// This package owns event buffering and sink delivery. The engine decides
// which events to emit.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import insureAuth or any sibling internal package.
package audit
