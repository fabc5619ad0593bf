// Package mockapi is an in-memory stand-in for the toolkit backend's auth
// endpoints. It serves the same JSON contract as the real service
// (login, register, profile, verify-token, health) so the terminal client
// can be developed and tested without it.
//
// Users live in memory, passwords are bcrypt-hashed and sessions are HS256
// JWTs. Failures are reported as {"message": "..."} bodies with the status
// codes the client relies on, 401 in particular.
package mockapi
