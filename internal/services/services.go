package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/sentix/internal/models"
	"github.com/desertthunder/sentix/internal/shared"
	"golang.org/x/oauth2"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 8

	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Gateway is the set of backend operations the client performs.
type Gateway interface {
	Register(ctx context.Context, req RegisterRequest) error
	Login(ctx context.Context, username, password string) (*oauth2.Token, error)
	Profile(ctx context.Context, token string) (*models.User, error)
	ChangePassword(ctx context.Context, token, current, next string) (string, error)
	ResetPassword(ctx context.Context, email string) (string, error)
	DeleteAccount(ctx context.Context, token string) error
	ImportReviews(ctx context.Context, token string, file models.SelectedFile) (models.Counts, error)
}

// RegisterRequest is the account registration form.
type RegisterRequest struct {
	Username string
	Password string
	Email    string
	FullName string
	Role     string
}

// Validate applies the client-side registration rules. An empty role defaults to [RoleUser].
func (r *RegisterRequest) Validate() error {
	if len(strings.TrimSpace(r.Username)) < MinUsernameLength {
		return fmt.Errorf("%w: username must be at least %d characters", shared.ErrInvalidInput, MinUsernameLength)
	}
	if err := ValidatePassword(r.Password); err != nil {
		return err
	}

	switch r.Role {
	case "":
		r.Role = RoleUser
	case RoleUser, RoleAdmin:
	default:
		return fmt.Errorf("%w: role must be %q or %q", shared.ErrInvalidInput, RoleUser, RoleAdmin)
	}
	return nil
}

// ValidatePassword checks the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", shared.ErrInvalidInput, MinPasswordLength)
	}
	return nil
}

// ImportPath returns the endpoint path for uploading reviews in the given format.
func ImportPath(format models.Format) (string, error) {
	switch format {
	case models.FormatCSV, models.FormatJSON:
		return "/reviews/import/" + string(format), nil
	default:
		return "", fmt.Errorf("%w: %s", shared.ErrUnsupportedFormat, format)
	}
}
