package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sentix/internal/formatter"
	"github.com/desertthunder/sentix/internal/imports"
	"github.com/desertthunder/sentix/internal/models"
	"github.com/desertthunder/sentix/internal/shared"
	"golang.org/x/time/rate"
)

// ImporterOpts contains configuration for batch imports.
type ImporterOpts struct {
	RateLimit float64 // Uploads per second (default: 5)
	OutputDir string  // When set, a report per successful file plus a manifest is written here
	Format    string  // Report format: text, markdown, csv, json (default: json)
	Logger    *log.Logger
}

// FileResult is the outcome of importing one path.
type FileResult struct {
	Path       string               `json:"path"`
	Success    bool                 `json:"success"`
	Message    string               `json:"message,omitempty"`
	ReportPath string               `json:"report_path,omitempty"`
	Result     *models.ImportResult `json:"-"`
	Error      error                `json:"-"`
}

// BatchResult summarizes a batch.
type BatchResult struct {
	Total        int          `json:"total"`
	Succeeded    int          `json:"succeeded"`
	Failed       int          `json:"failed"`
	Files        []FileResult `json:"files"`
	ManifestPath string       `json:"-"`
}

// Last returns the result of the last successful file, which is what the pipeline holds after the batch.
func (b *BatchResult) Last() *models.ImportResult {
	for i := len(b.Files) - 1; i >= 0; i-- {
		if b.Files[i].Success {
			return b.Files[i].Result
		}
	}
	return nil
}

// Importer uploads review files one at a time through a shared pipeline.
type Importer struct {
	pipeline *imports.Pipeline
	limiter  *rate.Limiter
	opts     ImporterOpts
	logger   *log.Logger
}

// NewImporter creates an [Importer] over pipeline.
func NewImporter(pipeline *imports.Pipeline, opts ImporterOpts) *Importer {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Format == "" {
		opts.Format = formatter.OutputJSON
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Importer{
		pipeline: pipeline,
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		opts:     opts,
		logger:   logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (im *Importer) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run imports each path in order. Per-file failures are recorded and the batch continues;
// cancellation stops the batch and returns what was done so far with the context error.
func (im *Importer) Run(ctx context.Context, progress chan<- ProgressUpdate, paths []string) (*BatchResult, error) {
	if im.pipeline == nil {
		return nil, fmt.Errorf("%w: import pipeline not initialized", shared.ErrServiceUnavailable)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: at least one file is required", shared.ErrMissingArgument)
	}

	if im.opts.OutputDir != "" {
		if err := os.MkdirAll(im.opts.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	res := &BatchResult{Total: len(paths), Files: make([]FileResult, 0, len(paths))}
	reports := make(map[string]int)

	for i, path := range paths {
		step := i + 1

		if err := im.limiter.Wait(ctx); err != nil {
			return res, err
		}

		fr := im.importOne(ctx, progress, step, len(paths), path, reports)
		res.Files = append(res.Files, fr)
		if fr.Success {
			res.Succeeded++
		} else {
			res.Failed++
		}

		if err := ctx.Err(); err != nil {
			return res, err
		}
	}

	if im.opts.OutputDir != "" {
		manifestPath := filepath.Join(im.opts.OutputDir, "import_manifest.json")
		if err := writeManifest(res, manifestPath); err != nil {
			return res, fmt.Errorf("import completed but failed to write manifest: %w", err)
		}
		res.ManifestPath = manifestPath
	}

	im.sendProgress(progress, doneUpdate(res))
	im.logger.Info("batch import finished", "total", res.Total, "succeeded", res.Succeeded, "failed", res.Failed)
	return res, nil
}

func (im *Importer) importOne(ctx context.Context, progress chan<- ProgressUpdate, step, total int, path string, reports map[string]int) FileResult {
	fr := FileResult{Path: path}
	im.pipeline.ClearError()

	im.sendProgress(progress, selectingUpdate(step, total, path))
	if err := im.pipeline.SelectPath(path); err != nil {
		return im.fail(progress, step, total, fr, err)
	}

	im.sendProgress(progress, uploadingUpdate(step, total, im.pipeline.Selected()))
	if err := im.pipeline.UploadSelected(ctx); err != nil {
		return im.fail(progress, step, total, fr, err)
	}

	fr.Success = true
	fr.Result = im.pipeline.Result()
	im.sendProgress(progress, uploadedUpdate(step, total, fr.Result))

	if im.opts.OutputDir != "" {
		reportPath := filepath.Join(im.opts.OutputDir, uniqueName(reports, reportName(path, im.opts.Format)))
		if err := formatter.WriteExport(formatter.NewReport(fr.Result), im.opts.Format, reportPath); err != nil {
			im.logger.Warn("failed to write report", "path", reportPath, "error", err)
			fr.Message = err.Error()
		} else {
			fr.ReportPath = reportPath
			im.sendProgress(progress, reportUpdate(step, total, reportPath))
		}
	}

	return fr
}

func (im *Importer) fail(progress chan<- ProgressUpdate, step, total int, fr FileResult, err error) FileResult {
	fr.Error = err
	fr.Message = im.pipeline.Error()
	if fr.Message == "" {
		fr.Message = err.Error()
	}

	im.logger.Debug("import failed", "path", fr.Path, "error", err)
	im.sendProgress(progress, failedUpdate(step, total, fr.Path, fr.Message))
	return fr
}

func reportName(path, format string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ext := map[string]string{
		formatter.OutputText:     "txt",
		"txt":                    "txt",
		formatter.OutputMarkdown: "md",
		"md":                     "md",
		formatter.OutputCSV:      "csv",
		formatter.OutputJSON:     "json",
	}[strings.ToLower(format)]
	if ext == "" {
		ext = "txt"
	}
	return fmt.Sprintf("%s_%s_report.%s", base, strings.TrimPrefix(filepath.Ext(path), "."), ext)
}

// uniqueName returns name the first time it is seen and name with a _2, _3, ... suffix after that.
func uniqueName(seen map[string]int, name string) string {
	seen[name]++
	n := seen[name]
	if n == 1 {
		return name
	}

	ext := filepath.Ext(name)
	for {
		candidate := fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
		if seen[candidate] == 0 {
			seen[candidate] = 1
			return candidate
		}
		n++
	}
}

func writeManifest(res *BatchResult, path string) error {
	data, err := shared.MarshalJSON(res, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
