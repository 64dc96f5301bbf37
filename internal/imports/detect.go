package imports

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/sentix/internal/models"
)

// Candidate is a file offered for selection, before validation.
type Candidate struct {
	Name     string
	MimeType string
	Data     []byte
}

// CandidateFromPath reads the file at path and determines its MIME type from the extension,
// falling back to content sniffing.
func CandidateFromPath(path string) (Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	name := filepath.Base(path)
	return Candidate{Name: name, MimeType: sniffMIME(name, data), Data: data}, nil
}

func sniffMIME(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

// DetectFormat derives the upload format from the file name's extension, then from its MIME type.
func DetectFormat(name, mimeType string) models.Format {
	if f, err := models.ParseFormat(filepath.Ext(name)); err == nil {
		return f
	}
	return formatFromMIME(mimeType)
}

func formatFromMIME(mimeType string) models.Format {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return models.FormatUnknown
	}

	switch mediaType {
	case "text/csv", "application/csv", "text/comma-separated-values", "application/vnd.ms-excel":
		return models.FormatCSV
	case "application/json", "text/json":
		return models.FormatJSON
	}
	if strings.HasSuffix(mediaType, "+json") {
		return models.FormatJSON
	}
	return models.FormatUnknown
}
