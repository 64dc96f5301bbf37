// Package server implements the sandbox backend: an in-memory stand-in for the sentiment analysis service,
// used for local development and integration tests.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Sandbox
//
// [Sandbox] registers two handlers:
//   - [AuthHandler] : registration, password-grant token issue, profile, password change/reset, account deletion
//   - [ReviewsHandler] : CSV and JSON review import returning per-category counts
//
// Passwords are hashed with bcrypt and access tokens are HS256 JWTs whose subject is the username.
// Errors use the FastAPI shape {"detail": "..."} so the client's error handling is exercised end to end.
//
// Reviews are scored with a small fixed lexicon. It exists to produce plausible counts, not to analyze sentiment.
package server
