// Package httpapi exposes the insureAuth engine as a JSON HTTP API.
//
// Routes:
//
//	POST   /auth/signup           create an account, 201 {user, token}
//	POST   /auth/login            200 {message, user, token} plus the token cookie
//	POST   /auth/send-otp         stage a one-time code
//	POST   /auth/verify-otp       check a one-time code
//	POST   /auth/forgot-password  replace the password of an account
//	POST   /auth/logout           revoke the presented token (authenticated)
//	GET    /user                  current profile (authenticated)
//	PUT    /user                  update profile (authenticated)
//	DELETE /user                  delete the account and revoke the token (authenticated)
//	POST   /admin/revoke          revoke another token (admin)
//	POST   /admin/revocation      inspect a revocation entry (admin)
//	GET    /healthz               cache reachability
//	GET    /metrics               Prometheus exposition, when configured
//
// Errors are written as {"error": "<message>"}.
package httpapi
