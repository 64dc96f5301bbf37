package tasks

import (
	"fmt"
	"path/filepath"

	"github.com/desertthunder/sentix/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	SelectFile Phase = iota
	UploadFile
	WriteReport
	Done
)

func (p Phase) String() string {
	switch p {
	case SelectFile:
		return "select_file"
	case UploadFile:
		return "upload_file"
	case WriteReport:
		return "write_report"
	case Done:
		return "done"
	default:
		return ""
	}
}

func selectingUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SelectFile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Reading %s...", step, total, filepath.Base(path)),
	}
}

func uploadingUpdate(step, total int, file *models.SelectedFile) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadFile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Uploading %s as %s...", step, total, file.Name, file.Format),
	}
}

func uploadedUpdate(step, total int, result *models.ImportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadFile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, result.FileName),
		Data:    result,
	}
}

func failedUpdate(step, total int, path, msg string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadFile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, filepath.Base(path), msg),
	}
}

func reportUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteReport,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Wrote %s", step, total, path),
	}
}

func doneUpdate(res *BatchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    res.Total,
		Total:   res.Total,
		Message: fmt.Sprintf("Imported %d of %d files (%d failed)", res.Succeeded, res.Total, res.Failed),
		Data:    res,
	}
}
