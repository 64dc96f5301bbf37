// Package session owns the lifecycle of the backend bearer token and the authenticated user derived from it.
//
// A [Manager] starts Unauthenticated. [Manager.Init] reads the persisted token and, when one exists, validates it
// in the background by fetching the user's profile:
//
//	Unauthenticated -> Validating -> Authenticated
//	                             \-> Invalid -> Unauthenticated
//
// [Manager.Login] and [Manager.Logout] are synchronous local transitions from any state. A validation result that
// arrives after either of them is discarded.
//
// Consumers depend on the [Session] capability (view layer) or the narrower [TokenSource] (import pipeline)
// rather than on the concrete manager.
package session
