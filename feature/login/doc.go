// Package login implements the user authentication feature.
//
// It verifies credentials against the users table (bcrypt hashes) and issues
// the JWT bearer tokens that the auth middleware checks on every protected
// route.
//
// # Components
//
//   - Service: credential verification and token issuance.
//   - Handler: exposes the login endpoint.
//   - Feature: registers the feature with the application loader.
//
// # HTTP Endpoints
//
//   - POST /user/login : Exchange email/password for a bearer token.
package login
