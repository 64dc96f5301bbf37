package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/sentix/internal/formatter"
	"github.com/desertthunder/sentix/internal/shared"
	"github.com/desertthunder/sentix/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func validOutputFormat(format string) bool {
	switch strings.ToLower(format) {
	case formatter.OutputText, "txt", formatter.OutputMarkdown, "md", formatter.OutputCSV, formatter.OutputJSON:
		return true
	}
	return false
}

// Import uploads each file in turn and prints the breakdown for every file that succeeded.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one CSV or JSON file is required", shared.ErrMissingArgument)
	}

	format := cmd.String("format")
	if !validOutputFormat(format) {
		return fmt.Errorf("%w: unknown output format %q", shared.ErrInvalidArgument, format)
	}

	if _, err := r.requireSession(ctx); err != nil {
		return err
	}

	pipeline := r.newPipeline()
	defer pipeline.Close()

	importer := tasks.NewImporter(pipeline, tasks.ImporterOpts{
		RateLimit: cmd.Float("rate"),
		OutputDir: cmd.String("output-dir"),
		Format:    format,
		Logger:    r.logger,
	})

	progressOut := cmd.Root().ErrWriter
	if progressOut == nil {
		progressOut = os.Stderr
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	var g errgroup.Group
	g.Go(func() error {
		var werr error
		for update := range progress {
			r.logger.Debug("import progress", "phase", update.Phase, "step", update.Step, "total", update.Total)
			if werr == nil {
				_, werr = fmt.Fprintln(progressOut, update.Message)
			}
		}
		return werr
	})

	res, err := importer.Run(ctx, progress, paths)
	close(progress)
	if werr := g.Wait(); werr != nil {
		return fmt.Errorf("failed to write progress: %w", werr)
	}

	if res == nil {
		return err
	}

	for _, fr := range res.Files {
		if !fr.Success {
			r.writePlain("✗ %s: %s\n", fr.Path, fr.Message)
			continue
		}

		out, renderErr := formatter.Render(formatter.NewReport(fr.Result), format)
		if renderErr != nil {
			return renderErr
		}
		if len(res.Files) > 1 {
			r.writePlainln("%s", fr.Path)
		}
		if _, werr := r.output.Write(out); werr != nil {
			return fmt.Errorf("failed to write output: %w", werr)
		}
		if fr.ReportPath != "" {
			r.writePlain("Report saved to %s\n", fr.ReportPath)
		}
	}
	if res.ManifestPath != "" {
		r.writePlain("Manifest saved to %s\n", res.ManifestPath)
	}

	if err != nil {
		return err
	}
	if res.Failed > 0 {
		return fmt.Errorf("%w: %d of %d files failed to import", shared.ErrAPIRequest, res.Failed, res.Total)
	}
	return nil
}
