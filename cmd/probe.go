package cmd

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/lepinkainen/mediaimport/media"
	"github.com/lepinkainen/mediaimport/types"
	"github.com/lepinkainen/mediaimport/ui"
)

type ProbeCmd struct {
	Files []string `arg:"" name:"files" help:"Media files to inspect" type:"existingfile"`
}

// Run resolves the given files as one batch and shows the names they would get
func (cmd *ProbeCmd) Run(appCtx *types.AppContext) error {
	logger := appCtx.Logger.With().Str("command", "probe").Logger()

	resolver, cleanup, err := newResolver(appCtx.Config, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var scan media.ScanResult
	var unsupported []string
	for _, file := range cmd.Files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", file, err)
		}
		item := media.Classify(filepath.Dir(abs), filepath.Base(abs))
		switch item.Kind {
		case media.Still:
			scan.Stills = append(scan.Stills, item)
		case media.Video:
			scan.Videos = append(scan.Videos, item)
		default:
			unsupported = append(unsupported, abs)
		}
	}

	resolutions := make(map[string]media.Resolution)
	pipeline := &media.Pipeline{
		Resolver: resolver,
		Layout:   media.Layout{InPlace: true},
		Logger:   logger,
		OnResolve: func(item media.Item, res media.Resolution) {
			resolutions[item.Path()] = res
		},
	}
	plan := pipeline.PlanScan(scan)

	proposed := make(map[string]string)
	for _, item := range plan.Items() {
		proposed[item.Path()] = item.TargetName
	}

	var rows []ui.ProbeRow
	for _, item := range slices.Concat(scan.Stills, scan.Videos) {
		rows = append(rows, ui.ProbeRow{
			Path:       item.Path(),
			Resolution: resolutions[item.Path()],
			Proposed:   proposed[item.Path()],
		})
	}
	fmt.Println(ui.ProbeTable(rows))

	for _, path := range unsupported {
		fmt.Println(ui.DimStyle.Render(fmt.Sprintf("%s: unsupported extension", path)))
	}
	if len(plan.ResolveFailures) > 0 {
		return fmt.Errorf("%d file(s) could not be resolved", len(plan.ResolveFailures))
	}
	return nil
}
