package cmd

import (
	"errors"
	"fmt"

	"github.com/lepinkainen/mediaimport/media"
	"github.com/lepinkainen/mediaimport/types"
	"github.com/lepinkainen/mediaimport/ui"
)

// RenameCmd renames media inside a directory tree without moving it elsewhere.
// Running it again over the same tree changes nothing.
type RenameCmd struct {
	Dir    string `arg:"" name:"dir" help:"Directory whose media is renamed in place" type:"existingdir"`
	DryRun bool   `name:"dry-run" help:"Print the new names without renaming"`
}

func (cmd *RenameCmd) Run(appCtx *types.AppContext) error {
	logger := appCtx.Logger.With().Str("command", "rename").Logger()

	resolver, cleanup, err := newResolver(appCtx.Config, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("MediaImport %s", appCtx.VersionString())))
	fmt.Println(ui.ScanStyle.Render(fmt.Sprintf("Renaming media in %s", cmd.Dir)))

	pipeline := &media.Pipeline{
		Resolver: resolver,
		Layout:   media.Layout{InPlace: true},
		Logger:   logger,
	}
	plan, err := pipeline.Plan(cmd.Dir)
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
		fmt.Println(ui.SuccessStyle.Render("✅ Nothing to rename"))
		return planFailure(plan)
	}

	report, err := commitBatch(appCtx, batch{
		command: "rename",
		source:  cmd.Dir,
		mode:    media.ModeMove,
		plan:    plan,
		items:   items,
	})
	if err != nil {
		return err
	}
	return printCommitSummary(plan, report, logger)
}
