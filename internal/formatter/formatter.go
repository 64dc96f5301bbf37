// package formatter renders import results as plain text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/sentix/internal/chart"
	"github.com/desertthunder/sentix/internal/models"
	"github.com/desertthunder/sentix/internal/shared"
)

// Output formats accepted by [Render].
const (
	OutputText     = "text"
	OutputMarkdown = "markdown"
	OutputCSV      = "csv"
	OutputJSON     = "json"
)

// Extra is a category the backend returned that the client does not know.
type Extra struct {
	Category string `json:"category"`
	Value    int    `json:"value"`
}

// Report is the renderable form of one import result.
type Report struct {
	FileName   string        `json:"file_name"`
	Format     string        `json:"format"`
	ReceivedAt time.Time     `json:"received_at"`
	Total      int           `json:"total"`
	Series     []chart.Slice `json:"series"`
	Extras     []Extra       `json:"extras,omitempty"`
}

// NewReport builds a [Report] from an import result.
func NewReport(result *models.ImportResult) *Report {
	series := chart.Series(result.Counts)

	var extras []Extra
	for k, v := range result.Counts {
		if !k.Known() {
			extras = append(extras, Extra{Category: string(k), Value: v})
		}
	}
	slices.SortFunc(extras, func(a, b Extra) int { return strings.Compare(a.Category, b.Category) })

	return &Report{
		FileName:   result.FileName,
		Format:     result.Format.String(),
		ReceivedAt: result.ReceivedAt,
		Total:      chart.Total(series),
		Series:     series,
		Extras:     extras,
	}
}

// Render dispatches to the exporter for format.
func Render(report *Report, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", OutputText, "txt":
		return ExportToText(report)
	case OutputMarkdown, "md":
		return ExportToMarkdown(report)
	case OutputCSV:
		return ExportToCSV(report)
	case OutputJSON:
		return shared.MarshalJSON(report, true)
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV converts a Report to CSV with columns: Category, Label, Count, Percent, Color
func ExportToCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Category", "Label", "Count", "Percent", "Color"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range report.Series {
		record := []string{
			string(s.Category),
			s.Label,
			strconv.Itoa(s.Value),
			strconv.FormatFloat(chart.Percent(s, report.Total), 'f', 1, 64),
			s.ColorKey,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Report to a Markdown table
func ExportToMarkdown(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Sentiment Analysis\n\n")
	if report.FileName != "" {
		buf.WriteString(fmt.Sprintf("**File**: %s (%s)\n", report.FileName, report.Format))
	}
	buf.WriteString(fmt.Sprintf("**Reviews**: %d\n\n", report.Total))

	buf.WriteString("| Sentiment | Count | Percent |\n")
	buf.WriteString("|---|---:|---:|\n")
	for _, s := range report.Series {
		buf.WriteString(fmt.Sprintf("| %s | %d | %.1f%% |\n", s.Label, s.Value, chart.Percent(s, report.Total)))
	}

	if len(report.Extras) > 0 {
		buf.WriteString("\n## Unrecognized Categories\n\n")
		for _, e := range report.Extras {
			buf.WriteString(fmt.Sprintf("- %s: %d\n", e.Category, e.Value))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Report to an aligned plain text table
func ExportToText(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	if report.FileName != "" {
		buf.WriteString(fmt.Sprintf("File: %s\n", report.FileName))
	}
	buf.WriteString(fmt.Sprintf("Reviews: %d\n\n", report.Total))

	for _, s := range report.Series {
		buf.WriteString(fmt.Sprintf("%-14s %6d  %5.1f%%\n", s.Label, s.Value, chart.Percent(s, report.Total)))
	}
	for _, e := range report.Extras {
		buf.WriteString(fmt.Sprintf("%-14s %6d  (unrecognized)\n", e.Category, e.Value))
	}

	return buf.Bytes(), nil
}

// WriteExport renders report in format and writes it to path, creating parent directories.
func WriteExport(report *Report, format, path string) error {
	data, err := Render(report, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
