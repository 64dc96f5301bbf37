package server

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sentix/internal/models"
)

const reviewTextField = "review_text"

var (
	errEmptyCSV     = errors.New("csv file is empty")
	errInvalidCSV   = errors.New("invalid csv file")
	errNoTextColumn = errors.New("csv header has no " + reviewTextField + " column")
	errInvalidJSON  = errors.New("json body is not an array of reviews")
)

// missingTextError reports the index of a JSON review without review_text.
type missingTextError struct {
	index int
}

func (e *missingTextError) Error() string {
	return fmt.Sprintf("review %d has no %s", e.index, reviewTextField)
}

// ReviewsHandler serves the review import endpoints.
type ReviewsHandler struct {
	users    *userStore
	tokens   *tokenIssuer
	maxBytes int64
	logger   *log.Logger
}

// Routes returns the HTTP routes this handler serves.
func (h *ReviewsHandler) Routes() []string {
	return []string{"/reviews/import/csv", "/reviews/import/json"}
}

func (h *ReviewsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var parse func(io.Reader) ([]string, error)
	switch r.URL.Path {
	case "/reviews/import/csv":
		parse = parseCSVReviews
	case "/reviews/import/json":
		parse = parseJSONReviews
	default:
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}

	MethodOnly(http.MethodPost, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.importReviews(w, r, parse)
	})).ServeHTTP(w, r)
}

func (h *ReviewsHandler) importReviews(w http.ResponseWriter, r *http.Request, parse func(io.Reader) ([]string, error)) {
	acct, ok := authenticate(w, r, h.users, h.tokens)
	if !ok {
		return
	}

	// multipart framing adds a little on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+64<<10)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeDetail(w, http.StatusUnprocessableEntity, "A file upload named 'file' is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		writeDetail(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	texts, err := parse(file)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, detailFor(err))
		return
	}

	counts := countSentiments(texts)
	h.logger.Info("imported reviews", "user", acct.Username, "file", header.Filename, "reviews", len(texts))
	writeJSON(w, http.StatusOK, counts)
}

// countSentiments returns counts for every category, including zeros.
func countSentiments(texts []string) map[models.Category]int {
	counts := make(map[models.Category]int, len(models.Categories()))
	for _, c := range models.Categories() {
		counts[c] = 0
	}
	for _, t := range texts {
		counts[categorize(polarity(t))]++
	}
	return counts
}

// parseCSVReviews reads the review_text column. Rows too short to hold it are skipped.
func parseCSVReviews(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidCSV, err)
	}

	col := -1
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")), reviewTextField) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errNoTextColumn
	}

	var texts []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		if col < len(record) {
			texts = append(texts, record[col])
		}
	}
	return texts, nil
}

// parseJSONReviews reads an array of objects carrying review_text.
func parseJSONReviews(r io.Reader) ([]string, error) {
	var items []map[string]any
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidJSON, err)
	}

	texts := make([]string, 0, len(items))
	for i, item := range items {
		text, ok := item[reviewTextField].(string)
		if !ok {
			return nil, &missingTextError{index: i}
		}
		texts = append(texts, text)
	}
	return texts, nil
}
