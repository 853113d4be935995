package main

import (
	"github.com/alecthomas/kong"

	"github.com/lepinkainen/mediaimport/cmd"
	"github.com/lepinkainen/mediaimport/config"
	"github.com/lepinkainen/mediaimport/logging"
	"github.com/lepinkainen/mediaimport/types"
)

var Version = "dev"

type CLI struct {
	Config   string `help:"Path to the configuration file" type:"path" placeholder:"FILE"`
	LogLevel string `name:"log-level" help:"Override the configured log level (debug, info, warn, error)"`

	Import  cmd.ImportCmd  `cmd:"" help:"Import stills and videos from a card into the dated libraries"`
	Rename  cmd.RenameCmd  `cmd:"" help:"Rename media in place using capture timestamps"`
	Probe   cmd.ProbeCmd   `cmd:"" help:"Show resolved timestamps and proposed names for files"`
	History cmd.HistoryCmd `cmd:"" help:"List recorded import batches"`
	Check   cmd.CheckCmd   `cmd:"" help:"Check external tools and configured paths"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mediaimport"),
		kong.Description("Import camera media into dated libraries, named by capture time."),
		kong.UsageOnError(),
	)

	cfg, configPath, _, err := config.Load(cli.Config)
	ctx.FatalIfErrorf(err)

	level := cfg.Logging.Level
	if cli.LogLevel != "" {
		level = cli.LogLevel
	}
	logger, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
	ctx.FatalIfErrorf(err)

	appCtx := &types.AppContext{
		Version:    Version,
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     logger,
	}

	err = ctx.Run(appCtx)
	ctx.FatalIfErrorf(err)
}
