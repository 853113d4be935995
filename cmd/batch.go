package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/lepinkainen/mediaimport/journal"
	"github.com/lepinkainen/mediaimport/logging"
	"github.com/lepinkainen/mediaimport/media"
	"github.com/lepinkainen/mediaimport/types"
	"github.com/lepinkainen/mediaimport/ui"
)

// ErrImportRunning is returned when another process holds the import lock
var ErrImportRunning = errors.New("another import is already running")

// batch is one planned run about to be committed
type batch struct {
	command   string // import | rename
	source    string
	mode      media.Mode
	overwrite bool
	tui       bool
	plan      *media.Plan
	items     []media.PlannedItem // what the user chose to commit
}

// commitBatch holds the import lock while the items are committed and
// records the outcome in the journal
func commitBatch(appCtx *types.AppContext, b batch) (media.CommitReport, error) {
	cfg := appCtx.Config
	logger := appCtx.Logger

	if err := cfg.EnsureStateDir(); err != nil {
		return media.CommitReport{}, err
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return media.CommitReport{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return media.CommitReport{}, fmt.Errorf("%w (lock %s)", ErrImportRunning, cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn().Err(err).Msg("Failed to release import lock")
		}
	}()

	committer := &media.Committer{
		Mode:      b.mode,
		Overwrite: b.overwrite,
		Logger:    logger,
	}

	started := time.Now()
	var report media.CommitReport
	switch {
	case b.tui && logging.IsTerminal():
		// Per-item log lines would tear the full screen view
		committer.Logger = zerolog.Nop()
		report, err = ui.RunCommitTUI(committer, b.items, appCtx.VersionString())
		if err != nil {
			logger.Warn().Err(err).Msg("Commit view failed")
		}
	case logging.IsTerminal():
		bar := progressbar.Default(int64(len(b.items)), "Committing")
		committer.OnItem = func(media.PlannedItem, error) { _ = bar.Add(1) }
		report = committer.Commit(b.items)
		_ = bar.Finish()
	default:
		report = committer.Commit(b.items)
	}
	finished := time.Now()

	recordBatch(appCtx, b, report, started, finished)
	return report, nil
}

func recordBatch(appCtx *types.AppContext, b batch, report media.CommitReport, started, finished time.Time) {
	logger := appCtx.Logger

	j, err := journal.Open(appCtx.Config.JournalPath())
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot open journal, batch not recorded")
		return
	}
	defer j.Close()

	failed := make(map[string]string, len(report.Failures))
	for _, f := range report.Failures {
		failed[f.Path] = f.Err.Error()
	}

	entries := make([]journal.Entry, 0, len(b.items)+len(b.plan.ResolveFailures))
	for _, item := range b.items {
		entries = append(entries, journal.Entry{
			Source:    item.Path(),
			Target:    item.Target(),
			Kind:      item.Kind.String(),
			Timestamp: item.Timestamp,
			Origin:    item.Source.String(),
			Error:     failed[item.Path()],
		})
	}
	for _, f := range b.plan.ResolveFailures {
		entries = append(entries, journal.Entry{
			Source: f.Path,
			Kind:   media.KindOf(media.Extension(filepath.Base(f.Path))).String(),
			Origin: media.Failed.String(),
			Error:  f.Err.Error(),
		})
	}

	id, err := j.Record(context.Background(), journal.Batch{
		StartedAt:  started,
		FinishedAt: finished,
		Command:    b.command,
		Source:     b.source,
		Mode:       b.mode.String(),
		Succeeded:  report.Succeeded,
		Failed:     len(report.Failures) + len(b.plan.ResolveFailures),
		Bytes:      report.Bytes,
	}, entries)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to record batch in journal")
		return
	}
	logger.Debug().Str("batch", id).Str("journal", j.Path()).Msg("Batch recorded")
}

// printPlanSummary reports what the pipeline found before anything is committed
func printPlanSummary(plan *media.Plan) {
	fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("Planned %d stills and %d videos", len(plan.Stills), len(plan.Videos))))
	if plan.Fallbacks > 0 {
		fmt.Println(ui.WarningStyle.Render(fmt.Sprintf("⚠️  %d item(s) use a fallback capture time", plan.Fallbacks)))
	}
	if plan.Skipped > 0 {
		fmt.Println(ui.DimStyle.Render(fmt.Sprintf("Skipped %d file(s) of unknown type", plan.Skipped)))
	}
	for _, f := range plan.ResolveFailures {
		fmt.Println(ui.ErrorStyle.Render(fmt.Sprintf("❌ %s: %v", f.Path, f.Err)))
	}
	for _, te := range plan.TraversalErrors {
		fmt.Println(ui.ErrorStyle.Render(fmt.Sprintf("❌ %s", te.Error())))
	}
}

// printCommitSummary prints the aggregate outcome and returns an error when anything failed
func printCommitSummary(plan *media.Plan, report media.CommitReport, logger zerolog.Logger) error {
	fmt.Println()
	fmt.Println(ui.SuccessStyle.Render(fmt.Sprintf("✅ %d file(s) committed, %s", report.Succeeded, humanize.Bytes(uint64(report.Bytes)))))

	for _, d := range report.DirFailures {
		fmt.Println(ui.ErrorStyle.Render(fmt.Sprintf("❌ cannot create %s: %v", d.Path, d.Err)))
	}
	for _, f := range report.Failures {
		fmt.Println(ui.ErrorStyle.Render(fmt.Sprintf("❌ %s: %v", f.Path, f.Err)))
	}

	failures := len(report.Failures) + len(plan.ResolveFailures) + len(plan.TraversalErrors)
	logger.Info().
		Int("succeeded", report.Succeeded).
		Int("failed", failures).
		Int("fallbacks", plan.Fallbacks).
		Int64("bytes", report.Bytes).
		Msg("Batch finished")

	if failures > 0 {
		return fmt.Errorf("%d item(s) failed", failures)
	}
	return nil
}

// planFailure returns an error when planning recorded failures, for runs that stop before commit
func planFailure(plan *media.Plan) error {
	failures := len(plan.ResolveFailures) + len(plan.TraversalErrors)
	if failures > 0 {
		return fmt.Errorf("%d item(s) failed", failures)
	}
	return nil
}
