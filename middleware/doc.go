// Package middleware adapts insureAuth.Engine to net/http.
//
// # Guards
//
//   - [RequireUser] admits any caller with a live, unrevoked token.
//   - [RequireAdmin] additionally requires the admin role.
//
// The token is read from the "token" cookie set at login, falling back to an
// "Authorization: Bearer" header. On success the [insureAuth.AuthResult] is
// stored in the request context; read it back with [AuthResultFromContext].
//
// Rejections are written as {"error": "<message>"} with the status chosen by
// [StatusFor]. The same helpers are used by the httpapi handlers so every
// route reports errors the same way.
//
// This package makes no authentication decisions of its own. Everything is
// delegated to Engine.Authenticate and Engine.AuthenticateAdmin.
package middleware
