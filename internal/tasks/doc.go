// Package tasks runs review imports in batches with real-time progress reporting.
//
// [Importer.Run] selects and uploads each path in order through a single [imports.Pipeline]:
//
//   - Files are validated locally before any request is made
//   - Requests are paced by a [rate.Limiter]
//   - A failure is recorded against its file and the batch continues
//   - Each success replaces the pipeline's result; results are never merged
//
// When an output directory is configured, each successful result is rendered with the formatter package and a
// manifest summarizing the batch is written alongside.
//
// # Progress Reporting
//
// Progress is sent on an optional channel using select with default, so a slow or absent reader never blocks
// the batch. [ProgressUpdate] carries the phase, step counters, a display message and optional data.
package tasks
