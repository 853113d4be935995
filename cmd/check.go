package cmd

import (
	"fmt"

	"github.com/lepinkainen/mediaimport/types"
	"github.com/lepinkainen/mediaimport/ui"
	"github.com/lepinkainen/mediaimport/utils"
)

type CheckCmd struct{}

// Run reports the external tools and where configuration and state live.
// It fails only when a tool the configuration requires is missing.
func (cmd *CheckCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.Config

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("MediaImport %s", appCtx.VersionString())))

	required := map[string]bool{
		utils.Exiftool.Name: cfg.Metadata.StillReader == "exiftool",
		utils.FFprobe.Name:  cfg.Metadata.VideoReader == "ffprobe",
	}

	var missing int
	for _, tool := range utils.Tools {
		path, err := utils.LookupTool(tool)
		switch {
		case err == nil:
			fmt.Println(ui.SuccessStyle.Render(fmt.Sprintf("✅ %s: %s", tool.Name, path)))
		case required[tool.Name]:
			missing++
			fmt.Println(ui.ErrorStyle.Render(fmt.Sprintf("❌ %s (required by config): %v", tool.Name, err)))
		default:
			fmt.Println(ui.WarningStyle.Render(fmt.Sprintf("⚠️  %s, needed for %s: %v", tool.Name, tool.Purpose, err)))
		}
	}

	fmt.Println()
	fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("Config:  %s", appCtx.ConfigPath)))
	fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("Stills:  %s", cfg.Paths.StillsRoot)))
	fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("Videos:  %s", cfg.Paths.VideosRoot)))
	fmt.Println(ui.InfoStyle.Render(fmt.Sprintf("Journal: %s", cfg.JournalPath())))

	if missing > 0 {
		return fmt.Errorf("%d required tool(s) missing", missing)
	}
	return nil
}
