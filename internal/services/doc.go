// Package services is the HTTP gateway to the sentiment analysis backend.
//
// [Client] wraps the eight backend operations with typed requests and results:
//
//	POST   /auth/register          form: username, password, email, full_name, role
//	POST   /auth/token             OAuth2 password grant
//	GET    /auth/profile           bearer
//	POST   /auth/change-password   bearer, form: current_password, new_password
//	POST   /auth/reset-password    form: email
//	DELETE /auth/delete-account    bearer
//	POST   /reviews/import/csv     bearer, multipart "file"
//	POST   /reviews/import/json    bearer, multipart "file"
//
// Login uses [oauth2.Config.PasswordCredentialsToken] so the token request is form-encoded the way the backend's
// OAuth2 password flow expects. Authenticated calls set the bearer header through [oauth2.Token.SetAuthHeader].
//
// # Error Handling
//
// Non-2xx responses become [*APIError], which carries the status code and the backend's "detail" message.
// Every APIError matches [shared.ErrAPIRequest] with errors.Is; 401 responses also match [shared.ErrAuthFailed].
// [DetailMessage] extracts a user-facing message with a fallback.
//
// Requests are paced by a [rate.Limiter] and tagged with an X-Request-ID header.
package services
