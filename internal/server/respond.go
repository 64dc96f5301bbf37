package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// details holds the user-facing text the backend returns for each sandbox error.
var details = []struct {
	err    error
	detail string
}{
	{errInvalidToken, "Could not validate credentials"},
	{errUsernameTaken, "Username already exists"},
	{errEmailTaken, "Email already registered"},
	{errNoSuchUser, "User not found"},
	{errBadPassword, "Incorrect username or password"},
	{errEmptyCSV, "CSV file is empty"},
	{errInvalidCSV, "Invalid CSV file"},
	{errNoTextColumn, "CSV file must contain a '" + reviewTextField + "' column"},
	{errInvalidJSON, "Invalid JSON file: expected an array of reviews"},
}

// detailFor maps err to its response detail. Unknown errors get a generic message.
func detailFor(err error) string {
	var missing *missingTextError
	if errors.As(err, &missing) {
		return fmt.Sprintf("Review %d is missing '%s'", missing.index, reviewTextField)
	}
	for _, d := range details {
		if errors.Is(err, d.err) {
			return d.detail
		}
	}
	return "Bad Request"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes a FastAPI-style error body.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

type message struct {
	Message string `json:"message"`
}
