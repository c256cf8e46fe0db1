// Package jwt issues and verifies the signed session tokens handed to users
// after signup and login. Verification is pure: it checks signature, algorithm
// and expiry only. Revocation is tracked elsewhere.
package jwt
