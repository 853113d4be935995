package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/lepinkainen/mediaimport/journal"
	"github.com/lepinkainen/mediaimport/types"
	"github.com/lepinkainen/mediaimport/ui"
)

type HistoryCmd struct {
	Limit int    `help:"Number of batches to list, 0 for all" default:"20"`
	Batch string `help:"Show the files of one batch (id or unique prefix)"`
}

func (cmd *HistoryCmd) Run(appCtx *types.AppContext) error {
	ctx := context.Background()

	j, err := journal.Open(appCtx.Config.JournalPath())
	if err != nil {
		return err
	}
	defer j.Close()

	if cmd.Batch != "" {
		id, err := j.ResolveBatchID(ctx, cmd.Batch)
		if err != nil {
			return err
		}
		entries, err := j.Entries(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("Batch %s (%d files)", id, len(entries))))
		fmt.Println(ui.EntriesTable(entries))
		return nil
	}

	batches, err := j.Batches(ctx, cmd.Limit)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		fmt.Println(ui.InfoStyle.Render("No batches recorded yet"))
		return nil
	}
	fmt.Println(ui.HistoryTable(batches, time.Now()))
	return nil
}
