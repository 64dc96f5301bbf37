package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/sentix/internal/services"
	"github.com/desertthunder/sentix/internal/session"
	"github.com/desertthunder/sentix/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	deleteConfirmation = "DELETE"
	msgInvalidLogin    = "Invalid username or password"
)

// AuthRegister creates an account. Input is validated before any network call.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	username, err := r.flagOrPrompt(cmd, "username", "Username: ")
	if err != nil {
		return err
	}
	password, err := r.flagOrPrompt(cmd, "password", "Password: ")
	if err != nil {
		return err
	}

	req := services.RegisterRequest{
		Username: username,
		Password: password,
		Email:    cmd.String("email"),
		FullName: cmd.String("full-name"),
		Role:     cmd.String("role"),
	}
	if err := req.Validate(); err != nil {
		return err
	}

	r.logger.Info("registering account", "username", req.Username)
	if err := r.gateway.Register(ctx, req); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, services.DetailMessage(err, "Registration failed"))
	}

	return r.writePlain("✓ Account %s created. Run 'sentix auth login' to sign in.\n", req.Username)
}

// AuthLogin exchanges credentials for a token, fetches the profile and starts a session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: session manager not initialized", shared.ErrServiceUnavailable)
	}

	username, err := r.flagOrPrompt(cmd, "username", "Username: ")
	if err != nil {
		return err
	}
	password, err := r.flagOrPrompt(cmd, "password", "Password: ")
	if err != nil {
		return err
	}

	token, err := r.gateway.Login(ctx, username, password)
	if err != nil {
		var apiErr *services.APIError
		if errors.As(err, &apiErr) {
			r.logger.Debug("login rejected", "status", apiErr.StatusCode, "detail", apiErr.Detail)
			return fmt.Errorf("%w: %s", shared.ErrAuthFailed, msgInvalidLogin)
		}
		return err
	}

	user, err := r.gateway.Profile(ctx, token.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if err := r.session.Login(token.AccessToken, user); err != nil {
		return err
	}

	r.logger.Info("signed in", "username", user.Username)
	return r.writePlain("✓ Signed in as %s\n", user.Username)
}

// AuthLogout clears the stored token. Running it while signed out is not an error.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	snap, err := r.restoreSession(ctx)
	if err != nil {
		return err
	}

	r.session.Logout()
	if snap.Token == "" {
		return r.writePlain("Not signed in.\n")
	}
	return r.writePlain("✓ Signed out\n")
}

type statusReport struct {
	State     string     `json:"state"`
	Username  string     `json:"username,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
	SavedAt   *time.Time `json:"saved_at,omitempty"`
}

// AuthStatus reports the session state after validating any stored token.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	snap, err := r.restoreSession(ctx)
	if err != nil {
		return err
	}

	report := statusReport{State: snap.State.String(), Username: snap.Username()}
	if snap.Token != "" {
		if claims, err := session.InspectToken(snap.Token); err != nil {
			r.logger.Debug("token is not a JWT", "error", err)
		} else if claims.HasExpiry() {
			exp := claims.ExpiresAt
			report.ExpiresAt = &exp
			report.Expired = claims.Expired(time.Now())
		}
	}
	if r.tokens != nil && snap.Token != "" {
		if at, ok, err := r.tokens.UpdatedAt(ctx); err != nil {
			r.logger.Warn("failed to read token timestamp", "error", err)
		} else if ok {
			report.SavedAt = &at
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, true)
	}

	if !snap.IsAuthenticated() {
		return r.writePlain("✗ Not signed in\n")
	}

	r.writePlain("✓ Signed in as %s\n", report.Username)
	if report.ExpiresAt != nil {
		remaining := time.Until(*report.ExpiresAt).Round(time.Second)
		r.writePlain("Token expires: %s (%s)\n", report.ExpiresAt.Local().Format(time.RFC1123), remaining)
	}
	if report.SavedAt != nil {
		r.writePlain("Token saved: %s\n", report.SavedAt.Local().Format(time.RFC1123))
	}
	return nil
}

// AuthProfile prints the signed-in user's profile.
func (r *Runner) AuthProfile(ctx context.Context, cmd *cli.Command) error {
	snap, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snap.User, true)
	}

	r.writePlainHeader("Profile")
	r.writePlain("Username: %s\n", snap.User.Username)
	return r.writePlain("Email:    %s\n", snap.User.EmailOr("(none)"))
}

// AuthChangePassword changes the password of the signed-in user.
func (r *Runner) AuthChangePassword(ctx context.Context, cmd *cli.Command) error {
	snap, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	current, err := r.flagOrPrompt(cmd, "current", "Current password: ")
	if err != nil {
		return err
	}
	next, err := r.flagOrPrompt(cmd, "new", "New password: ")
	if err != nil {
		return err
	}
	if err := services.ValidatePassword(next); err != nil {
		return err
	}

	msg, err := r.gateway.ChangePassword(ctx, snap.Token, current, next)
	if err != nil {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, services.DetailMessage(err, "Failed to change password"))
	}
	return r.writePlain("✓ %s\n", msg)
}

// AuthResetPassword requests a temporary password for an email address.
func (r *Runner) AuthResetPassword(ctx context.Context, cmd *cli.Command) error {
	email, err := r.flagOrPrompt(cmd, "email", "Email: ")
	if err != nil {
		return err
	}

	temp, err := r.gateway.ResetPassword(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, services.DetailMessage(err, "Failed to reset password"))
	}

	r.writePlain("✓ Temporary password generated\n")
	r.writePlain("Temporary password: %s\n", temp)
	return r.writePlain("Sign in with it and change it right away.\n")
}

// AuthDeleteAccount deletes the signed-in account after an exact DELETE confirmation.
//
// The confirmation is checked before any network call, and the session is torn down on success.
func (r *Runner) AuthDeleteAccount(ctx context.Context, cmd *cli.Command) error {
	confirm := cmd.String("confirm")
	if confirm == "" {
		var err error
		if confirm, err = r.prompt("Type DELETE to permanently delete your account: "); err != nil {
			return err
		}
	}
	if confirm != deleteConfirmation {
		return fmt.Errorf("%w: Please type DELETE to confirm", shared.ErrConfirmationMismatch)
	}

	snap, err := r.requireSession(ctx)
	if err != nil {
		return err
	}

	if err := r.gateway.DeleteAccount(ctx, snap.Token); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, services.DetailMessage(err, "Failed to delete account"))
	}

	r.session.Teardown()
	return r.writePlain("✓ Account %s deleted\n", snap.Username())
}
