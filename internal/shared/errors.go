package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput         = fmt.Errorf("invalid input")
	ErrMissingArgument      = fmt.Errorf("missing required argument")
	ErrInvalidArgument      = fmt.Errorf("invalid argument")
	ErrConfirmationMismatch = fmt.Errorf("confirmation text does not match")

	// Import errors
	ErrNoFileSelected    = fmt.Errorf("no file selected")
	ErrUnsupportedFormat = fmt.Errorf("unsupported file format")
	ErrFileTooLarge      = fmt.Errorf("file too large")
	ErrEmptyFile         = fmt.Errorf("file is empty")
	ErrFormatMismatch    = fmt.Errorf("file format does not match upload endpoint")
	ErrBusy              = fmt.Errorf("an upload is already in progress")
)
