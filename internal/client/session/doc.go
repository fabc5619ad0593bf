// Package session is the client's single source of truth for "is this
// client signed in, and as whom".
//
// A Service wraps the backend auth calls. Every network-backed operation
// absorbs its error at the boundary: the caller gets a Result, the state
// gets an error message, and the user gets exactly one notification.
//
// Overlapping operations are ordered by a per-container sequence number.
// Only the most recently started operation may commit; earlier responses
// are discarded. Logout counts as an operation, so a login response that
// arrives after a logout cannot sign the user back in.
//
// Network calls run in a scope owned by the container, not by the caller.
// Values on the caller's context are kept but its cancellation is not.
// Close cancels every scope; results that arrive afterwards are ignored.
package session
