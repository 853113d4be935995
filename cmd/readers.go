package cmd

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lepinkainen/mediaimport/config"
	"github.com/lepinkainen/mediaimport/media"
	"github.com/lepinkainen/mediaimport/utils"
)

// newResolver builds a resolver from the configured readers.
// The returned cleanup releases any external reader process and is never nil.
func newResolver(cfg *config.Config, logger zerolog.Logger) (*media.Resolver, func(), error) {
	cleanup := func() {}

	var stills media.StillReader
	switch cfg.Metadata.StillReader {
	case "exiftool":
		if err := utils.ValidateExiftool(); err != nil {
			return nil, cleanup, err
		}
		et := &media.ExiftoolReader{}
		stills = et
		cleanup = func() {
			if err := et.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to stop exiftool")
			}
		}
	default:
		stills = media.GoexifReader{}
	}

	videos, err := newVideoReader(cfg.Metadata.VideoReader, logger)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	loc, err := cfg.Location()
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("load timezone: %w", err)
	}
	offset, err := cfg.FallbackOffset()
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("parse fallback offset: %w", err)
	}

	resolver := media.NewResolver(stills, videos)
	resolver.Location = loc
	resolver.ExpectedFrameRate = cfg.Metadata.ExpectedFrameRate
	resolver.FallbackOffset = offset
	return resolver, cleanup, nil
}

func newVideoReader(kind string, logger zerolog.Logger) (media.VideoReader, error) {
	switch kind {
	case "mp4":
		return media.MP4Reader{}, nil
	case "ffprobe":
		if err := utils.ValidateFFprobe(); err != nil {
			return nil, err
		}
		return media.FFprobeReader{}, nil
	default:
		auto := media.AutoVideoReader{Native: media.MP4Reader{}}
		if utils.ValidateFFprobe() == nil {
			auto.FFprobe = media.FFprobeReader{}
		} else {
			logger.Warn().Msg("ffprobe not found, MTS videos cannot be read")
		}
		return auto, nil
	}
}
