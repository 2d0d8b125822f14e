package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/skillswap/internal/shared"
	"github.com/desertthunder/skillswap/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes the selected feeds, with their authors' profiles, to an output directory.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	feeds, err := tasks.ParseFeeds(cmd.String("feeds"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	client, err := r.session()
	if err != nil {
		return err
	}

	opts := tasks.ExportOpts{
		Feeds:      feeds,
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
		Avatars:    cmd.Bool("avatars"),
		Client:     r.httpClient,
	}

	r.logger.Info("starting export", "feeds", feeds, "format", opts.Format)
	r.writePlain("Exporting %d feed(s)...\n", len(feeds))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchFeed:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ResolveAuthors:
				if update.Step == 1 {
					r.writePlain("\n👤 Resolving authors\n")
				}
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteExport:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	engine := tasks.NewExportEngine(client, r.logger)
	result, err := engine.Export(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Format: %s\n", result.Format)
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Feeds: %d succeeded, %d failed\n", result.SuccessfulExports, result.FailedExports)
	r.writePlain("Authors: %d resolved\n", result.AuthorsResolved)

	if len(result.AuthorErrors) > 0 {
		r.writePlain("\nCould not resolve %d author(s):\n", len(result.AuthorErrors))
		for _, ae := range result.AuthorErrors {
			r.writePlain("  - user #%d: %s\n", ae.UserID, ae.Error)
		}
	}
	if result.FailedExports > 0 {
		r.writePlain("\nFailed feeds:\n")
		for _, f := range result.Feeds {
			if !f.Success {
				r.writePlain("  - %s: %s\n", f.Feed, f.Message)
			}
		}
	}
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}
