package imports

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sentix/internal/models"
	"github.com/desertthunder/sentix/internal/services"
	"github.com/desertthunder/sentix/internal/session"
	"github.com/desertthunder/sentix/internal/shared"
)

// DefaultMaxBytes is the selection size cap when none is configured.
const DefaultMaxBytes = 10 << 20

// User-facing messages.
const (
	MsgSelectFirst  = "Please select a file first."
	MsgUnsupported  = "Please upload a CSV or JSON file"
	MsgEmptyFile    = "The selected file is empty."
	MsgNotLoggedIn  = "Please log in to import reviews."
	MsgUploadFailed = "Failed to import reviews. Please try again."

	msgTooLarge       = "File is larger than %s."
	msgFormatMismatch = "The selected file is not a %s file."
	msgUnreadable     = "Could not read %s."
	msgDirectory      = "%s is a directory, not a file."
)

// ErrClosed is returned by uploads that complete after [Pipeline.Close].
var ErrClosed = errors.New("import pipeline closed")

// Gateway uploads a review file and returns per-category counts.
type Gateway interface {
	ImportReviews(ctx context.Context, token string, file models.SelectedFile) (models.Counts, error)
}

// Options configures a [Pipeline].
type Options struct {
	Gateway Gateway
	Tokens  session.TokenSource
	// MaxBytes caps selectable file size. Non-positive uses [DefaultMaxBytes].
	MaxBytes int64
	Logger   *log.Logger
	Now      func() time.Time
}

// State is a copy of the pipeline's state at one instant.
type State struct {
	Selected *models.SelectedFile
	Result   *models.ImportResult
	Error    string
	Busy     bool
}

// Pipeline validates selected files and uploads them. It is safe for concurrent use.
type Pipeline struct {
	gateway  Gateway
	tokens   session.TokenSource
	maxBytes int64
	logger   *log.Logger
	now      func() time.Time

	mu       sync.Mutex
	selected *models.SelectedFile
	result   *models.ImportResult
	errMsg   string
	busy     bool
	closed   bool
}

// New creates a [Pipeline].
func New(opts Options) *Pipeline {
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Pipeline{
		gateway:  opts.Gateway,
		tokens:   opts.Tokens,
		maxBytes: maxBytes,
		logger:   logger,
		now:      now,
	}
}

// SelectFile validates c and makes it the selected file.
//
// Rejection sets the error message and leaves the current selection and result in place.
// Acceptance clears the error and keeps the previous result visible.
func (p *Pipeline) SelectFile(c Candidate) error {
	file, msg, err := p.validate(c)
	if err != nil {
		p.reject(c.Name, msg, err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.selected = file
	p.errMsg = ""
	p.logger.Debug("selected file", "name", file.Name, "format", file.Format, "bytes", file.Size())
	return nil
}

// SelectPath stats path against the size cap before reading it, then selects it.
//
// Every failure, including I/O errors, sets the error message like [Pipeline.SelectFile] does.
func (p *Pipeline) SelectPath(path string) error {
	name := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		err = fmt.Errorf("failed to open %s: %w", path, err)
		p.reject(name, fmt.Sprintf(msgUnreadable, name), err)
		return err
	}
	if info.IsDir() {
		err := fmt.Errorf("%w: %s is a directory", shared.ErrInvalidInput, path)
		p.reject(name, fmt.Sprintf(msgDirectory, name), err)
		return err
	}

	if info.Size() > p.maxBytes {
		err := fmt.Errorf("%w: %s is %d bytes, limit is %d", shared.ErrFileTooLarge, name, info.Size(), p.maxBytes)
		p.reject(name, p.tooLargeMsg(), err)
		return err
	}

	c, err := CandidateFromPath(path)
	if err != nil {
		p.reject(name, fmt.Sprintf(msgUnreadable, name), err)
		return err
	}
	return p.SelectFile(c)
}

func (p *Pipeline) reject(name, msg string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errMsg = msg
	p.logger.Debug("rejected file", "name", name, "error", err)
}

func (p *Pipeline) validate(c Candidate) (*models.SelectedFile, string, error) {
	format := DetectFormat(c.Name, c.MimeType)
	if format == models.FormatUnknown {
		return nil, MsgUnsupported, fmt.Errorf("%w: %s (%s)", shared.ErrUnsupportedFormat, c.Name, c.MimeType)
	}
	if len(c.Data) == 0 {
		return nil, MsgEmptyFile, fmt.Errorf("%w: %s", shared.ErrEmptyFile, c.Name)
	}
	if int64(len(c.Data)) > p.maxBytes {
		return nil, p.tooLargeMsg(), fmt.Errorf("%w: %s is %d bytes, limit is %d", shared.ErrFileTooLarge, c.Name, len(c.Data), p.maxBytes)
	}

	data := make([]byte, len(c.Data))
	copy(data, c.Data)
	return &models.SelectedFile{Name: c.Name, MimeType: c.MimeType, Data: data, Format: format}, "", nil
}

func (p *Pipeline) tooLargeMsg() string {
	return fmt.Sprintf(msgTooLarge, humanBytes(p.maxBytes))
}

// Upload sends the selected file to the endpoint for format.
//
// It fails without a network call when nothing is selected, when the selection's format differs from format,
// when there is no session token, or when another upload is in flight ([shared.ErrBusy]).
func (p *Pipeline) Upload(ctx context.Context, format models.Format) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.busy {
		p.mu.Unlock()
		return shared.ErrBusy
	}
	if p.selected == nil {
		p.errMsg = MsgSelectFirst
		p.mu.Unlock()
		return shared.ErrNoFileSelected
	}
	if p.selected.Format != format {
		p.errMsg = fmt.Sprintf(msgFormatMismatch, formatLabel(format))
		err := fmt.Errorf("%w: selected %s, requested %s", shared.ErrFormatMismatch, p.selected.Format, format)
		p.mu.Unlock()
		return err
	}

	token := ""
	if p.tokens != nil {
		token = p.tokens.Token()
	}
	if token == "" {
		p.errMsg = MsgNotLoggedIn
		p.mu.Unlock()
		return shared.ErrNotAuthenticated
	}

	file := *p.selected
	p.busy = true
	p.errMsg = ""
	p.mu.Unlock()

	p.logger.Info("uploading reviews", "file", file.Name, "format", file.Format, "bytes", file.Size())
	counts, err := p.gateway.ImportReviews(ctx, token, file)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy = false

	if p.closed {
		p.logger.Debug("discarding upload response after close", "file", file.Name)
		return ErrClosed
	}

	if err != nil {
		p.errMsg = services.DetailMessage(err, MsgUploadFailed)
		p.logger.Warn("upload failed", "file", file.Name, "error", err)
		return err
	}

	p.result = &models.ImportResult{
		Counts:     counts.Clone(),
		Format:     file.Format,
		FileName:   file.Name,
		ReceivedAt: p.now(),
	}
	p.logger.Info("upload complete", "file", file.Name, "categories", len(counts))
	return nil
}

// UploadSelected uploads the selected file using its own format.
func (p *Pipeline) UploadSelected(ctx context.Context) error {
	p.mu.Lock()
	selected := p.selected
	p.mu.Unlock()

	if selected == nil {
		return p.Upload(ctx, models.FormatUnknown)
	}
	return p.Upload(ctx, selected.Format)
}

// Close detaches the pipeline. Responses that arrive afterwards are discarded.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// ClearError dismisses the current error message.
func (p *Pipeline) ClearError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errMsg = ""
}

// Busy reports whether an upload is in flight.
func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// Error returns the current user-facing error message, or an empty string.
func (p *Pipeline) Error() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errMsg
}

// Result returns a copy of the latest result, or nil if no upload has succeeded.
func (p *Pipeline) Result() *models.ImportResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneResult(p.result)
}

// Selected returns a copy of the selected file, or nil.
func (p *Pipeline) Selected() *models.SelectedFile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneSelected(p.selected)
}

// State returns a consistent copy of all pipeline state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		Selected: cloneSelected(p.selected),
		Result:   cloneResult(p.result),
		Error:    p.errMsg,
		Busy:     p.busy,
	}
}

func cloneResult(r *models.ImportResult) *models.ImportResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Counts = r.Counts.Clone()
	return &c
}

func cloneSelected(f *models.SelectedFile) *models.SelectedFile {
	if f == nil {
		return nil
	}
	c := *f
	c.Data = append([]byte(nil), f.Data...)
	return &c
}

func formatLabel(f models.Format) string {
	switch f {
	case models.FormatCSV:
		return "CSV"
	case models.FormatJSON:
		return "JSON"
	default:
		return f.String()
	}
}

func humanBytes(n int64) string {
	const unit = 1 << 10
	switch {
	case n >= unit*unit && n%(unit*unit) == 0:
		return fmt.Sprintf("%dMB", n/(unit*unit))
	case n >= unit && n%unit == 0:
		return fmt.Sprintf("%dKB", n/unit)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
