// Package api is the client for the toolkit's REST backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see Client) for the auth endpoints the
//     state containers consume: Login, Register, GetProfile, UpdateProfile,
//     VerifyToken and the Ping health probe.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that reads
//     the persisted bearer token through a TokenSource and attaches it to
//     every request, tags requests with an X-Request-ID, and decodes the
//     backend's {"message": ...} error bodies.
//
// # Error Handling
//
// Non-2xx responses become *Error values carrying the status and the server
// message. Transport failures wrap ErrUnavailable. A 401 matches
// ErrUnauthorized through errors.Is. When the rejected request carried a
// bearer token, the persisted token is cleared if it is still that token,
// and the handler registered with SetUnauthorizedHandler receives it,
// whatever operation triggered it.
//
// Message(err, fallback) reduces any error to the single user-facing string
// the containers store and notify.
package api
