package cmd

import (
	"errors"
	"fmt"

	"github.com/lepinkainen/mediaimport/config"
	"github.com/lepinkainen/mediaimport/media"
	"github.com/lepinkainen/mediaimport/types"
	"github.com/lepinkainen/mediaimport/ui"
	"github.com/lepinkainen/mediaimport/utils"
)

type ImportCmd struct {
	Source     string `arg:"" name:"source" help:"Directory to import from, e.g. a mounted memory card" type:"existingdir"`
	StillsRoot string `name:"stills-root" help:"Override the stills library root" type:"path"`
	VideosRoot string `name:"videos-root" help:"Override the videos library root" type:"path"`
	Move       bool   `help:"Move files instead of copying them"`
	Overwrite  bool   `help:"Replace files that already exist at the target"`
	DryRun     bool   `name:"dry-run" help:"Print the plan without touching any file"`
	Review     bool   `help:"Review and deselect planned files before committing"`
	TUI        bool   `name:"tui" help:"Show commit progress in a full screen view"`
}

func (cmd *ImportCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.Config
	logger := appCtx.Logger.With().Str("command", "import").Logger()

	stillsRoot, videosRoot, err := cmd.roots(cfg)
	if err != nil {
		return err
	}

	mode, err := media.ParseMode(cfg.Import.Mode)
	if err != nil {
		return err
	}
	if cmd.Move {
		mode = media.ModeMove
	}

	switch utils.ClassifyMount(cmd.Source) {
	case utils.MountNetwork:
		logger.Warn().Str("source", cmd.Source).Msg("Source is on a network drive, metadata reads may be slow")
	case utils.MountRemovable:
		if mode == media.ModeMove {
			logger.Warn().Str("source", cmd.Source).Msg("Moving files off a removable card, the card will be emptied")
		}
	}

	resolver, cleanup, err := newResolver(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("MediaImport %s", appCtx.VersionString())))
	fmt.Println(ui.ScanStyle.Render(fmt.Sprintf("Scanning %s", cmd.Source)))

	pipeline := &media.Pipeline{
		Resolver: resolver,
		Layout:   media.Layout{StillsRoot: stillsRoot, VideosRoot: videosRoot},
		Logger:   logger,
	}
	plan, err := pipeline.Plan(cmd.Source)
	var traversal media.TraversalErrors
	if err != nil && !errors.As(err, &traversal) {
		return err
	}
	printPlanSummary(plan)

	items := plan.Items()
	if cmd.DryRun {
		fmt.Println(ui.PlanTable(items))
		return planFailure(plan)
	}
	if len(items) == 0 {
		fmt.Println(ui.SuccessStyle.Render("✅ Nothing to import"))
		return planFailure(plan)
	}

	if cmd.Review {
		selected, ok, err := ui.RunPlanReview(items)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(ui.InfoStyle.Render("Import cancelled, nothing was changed"))
			return nil
		}
		items = selected
	}

	report, err := commitBatch(appCtx, batch{
		command:   "import",
		source:    cmd.Source,
		mode:      mode,
		overwrite: cmd.Overwrite || cfg.Import.Overwrite,
		tui:       cmd.TUI,
		plan:      plan,
		items:     items,
	})
	if err != nil {
		return err
	}
	return printCommitSummary(plan, report, logger)
}

func (cmd *ImportCmd) roots(cfg *config.Config) (stills, videos string, err error) {
	stills, videos = cfg.Paths.StillsRoot, cfg.Paths.VideosRoot
	if cmd.StillsRoot != "" {
		if stills, err = config.ExpandPath(cmd.StillsRoot); err != nil {
			return "", "", fmt.Errorf("stills root: %w", err)
		}
	}
	if cmd.VideosRoot != "" {
		if videos, err = config.ExpandPath(cmd.VideosRoot); err != nil {
			return "", "", fmt.Errorf("videos root: %w", err)
		}
	}
	return stills, videos, nil
}
