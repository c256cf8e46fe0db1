// Package userstore holds insureAuth.UserStore implementations.
//
// Subpackages:
//
//   - memory: a map-backed store for tests and local runs.
//   - postgres: a database/sql store on the pgx driver with embedded goose
//     migrations for the users table.
package userstore
