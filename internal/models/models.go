package models

import (
	"fmt"
	"strings"
	"time"
)

// User is the profile returned by the backend for a bearer token.
type User struct {
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

// Validate reports whether the user record is well-formed.
func (u *User) Validate() error {
	if u == nil {
		return fmt.Errorf("user is required")
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("username is required")
	}
	return nil
}

// EmailOr returns the email address or fallback when the backend sent none.
func (u *User) EmailOr(fallback string) string {
	if u == nil || u.Email == nil || *u.Email == "" {
		return fallback
	}
	return *u.Email
}

// Format is the declared format of an uploaded review file.
type Format string

const (
	FormatUnknown Format = ""
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
)

// ParseFormat converts user input ("csv", "JSON", ".json") to a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown format %q", s)
	}
}

func (f Format) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return string(f)
}

// SelectedFile is a file that passed client-side validation.
type SelectedFile struct {
	Name     string
	MimeType string
	Data     []byte
	Format   Format
}

// Size returns the file size in bytes.
func (f *SelectedFile) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}

// Category is a sentiment classification bucket.
type Category string

const (
	VeryPositive Category = "very_positive"
	Positive     Category = "positive"
	Neutral      Category = "neutral"
	Negative     Category = "negative"
	VeryNegative Category = "very_negative"
)

// Categories returns the canonical display order.
func Categories() []Category {
	return []Category{VeryPositive, Positive, Neutral, Negative, VeryNegative}
}

// Known reports whether c is one of the five fixed categories.
func (c Category) Known() bool {
	switch c {
	case VeryPositive, Positive, Neutral, Negative, VeryNegative:
		return true
	}
	return false
}

// Counts maps a category to the number of reviews the backend put in it.
//
// Keys are stored exactly as received. Missing categories are not filled in.
type Counts map[Category]int

// Clone returns an independent copy.
func (c Counts) Clone() Counts {
	if c == nil {
		return nil
	}
	out := make(Counts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Get returns the count for category, treating a missing key as zero.
func (c Counts) Get(category Category) int {
	return c[category]
}

// ImportResult is the outcome of one successful upload.
type ImportResult struct {
	Counts     Counts
	Format     Format
	FileName   string
	ReceivedAt time.Time
}
