package media

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	mp4 "github.com/abema/go-mp4"
	"github.com/djherbis/times"
)

// Text layouts of the video container fields, zone label first as MediaInfo prints them
const (
	encodedDateLayout  = "2006-01-02 15:04:05"
	modifiedDateLayout = "2006-01-02 15:04:05.000000"
)

// appleEpochOffset is the number of seconds between 1904-01-01 and 1970-01-01 UTC
const appleEpochOffset = 2082844800

// VideoTags holds the container fields the resolver consumes, as text:
//
//	EncodedDate      "UTC 2021-06-01 14:30:05"        (empty when absent)
//	FileModifiedDate "UTC 2021-06-01 12:30:05.123456"
//	Duration         milliseconds, decimal string
//	FrameRate        frames per second, decimal string
type VideoTags struct {
	EncodedDate      string
	FileModifiedDate string
	Duration         string
	FrameRate        string
}

// VideoReader opens a video container and reports its metadata fields
type VideoReader interface {
	Open(path string) (VideoTags, error)
}

// fileModifiedDate formats the filesystem modification time the way the tag readers do
func fileModifiedDate(path string) (string, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return "", err
	}
	return "UTC " + ts.ModTime().UTC().Format(modifiedDateLayout), nil
}

func formatRate(fps float64) string {
	return strconv.FormatFloat(fps, 'f', 3, 64)
}

// MP4Reader reads ISO base media containers (MOV, MP4) natively
type MP4Reader struct{}

func (MP4Reader) Open(path string) (VideoTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return VideoTags{}, fmt.Errorf("%w: %w", ErrReaderFailure, err)
	}
	defer func() { _ = f.Close() }()

	modified, err := fileModifiedDate(path)
	if err != nil {
		return VideoTags{}, fmt.Errorf("%w: %w", ErrReaderFailure, err)
	}
	tags := VideoTags{FileModifiedDate: modified}

	boxes, err := mp4.ExtractBoxWithPayload(f, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()})
	if err != nil {
		return VideoTags{}, fmt.Errorf("%w: read mp4 structure: %w", ErrReaderFailure, err)
	}
	if len(boxes) == 0 {
		return VideoTags{}, fmt.Errorf("%w: mvhd box not found", ErrReaderFailure)
	}
	mvhd, ok := boxes[0].Payload.(*mp4.Mvhd)
	if !ok {
		return VideoTags{}, fmt.Errorf("%w: unexpected mvhd payload %T", ErrReaderFailure, boxes[0].Payload)
	}

	if created := mvhd.GetCreationTime(); created > appleEpochOffset {
		t := time.Unix(int64(created)-appleEpochOffset, 0).UTC()
		tags.EncodedDate = "UTC " + t.Format(encodedDateLayout)
	}
	if mvhd.Timescale > 0 {
		ms := float64(mvhd.GetDuration()) * 1000 / float64(mvhd.Timescale)
		tags.Duration = strconv.FormatFloat(ms, 'f', 0, 64)
	}

	fps, err := mp4VideoFrameRate(f)
	if err != nil {
		return VideoTags{}, err
	}
	if fps > 0 {
		tags.FrameRate = formatRate(fps)
	}
	return tags, nil
}

// mp4VideoFrameRate finds the first video track and derives its average frame rate
// from the sample count and the media duration.
func mp4VideoFrameRate(f *os.File) (float64, error) {
	traks, err := mp4.ExtractBox(f, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeTrak()})
	if err != nil {
		return 0, fmt.Errorf("%w: read tracks: %w", ErrReaderFailure, err)
	}

	for _, trak := range traks {
		boxes, err := mp4.ExtractBoxesWithPayload(f, trak, []mp4.BoxPath{
			{mp4.BoxTypeMdia(), mp4.BoxTypeHdlr()},
			{mp4.BoxTypeMdia(), mp4.BoxTypeMdhd()},
			{mp4.BoxTypeMdia(), mp4.BoxTypeMinf(), mp4.BoxTypeStbl(), mp4.BoxTypeStts()},
		})
		if err != nil {
			return 0, fmt.Errorf("%w: read track: %w", ErrReaderFailure, err)
		}

		var (
			isVideo   bool
			timescale uint32
			duration  uint64
			samples   uint64
		)
		for _, b := range boxes {
			switch p := b.Payload.(type) {
			case *mp4.Hdlr:
				isVideo = string(p.HandlerType[:]) == "vide"
			case *mp4.Mdhd:
				timescale = p.Timescale
				duration = p.GetDuration()
			case *mp4.Stts:
				for _, e := range p.Entries {
					samples += uint64(e.SampleCount)
				}
			}
		}

		if isVideo && timescale > 0 && duration > 0 {
			return float64(samples) * float64(timescale) / float64(duration), nil
		}
	}
	return 0, nil
}

// FFprobeReader runs ffprobe and translates its JSON report.
// It handles containers the native reader cannot, such as AVCHD MTS streams.
type FFprobeReader struct {
	Binary string // defaults to "ffprobe"
}

type ffprobeReport struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string            `json:"duration"`
		Tags     map[string]string `json:"tags"`
	} `json:"format"`
}

func (r FFprobeReader) Open(path string) (VideoTags, error) {
	binary := r.Binary
	if binary == "" {
		binary = "ffprobe"
	}

	cmd := exec.Command(binary, "-v", "error", "-print_format", "json",
		"-show_format", "-show_streams", "--", path)
	output, err := cmd.Output()
	if err != nil {
		return VideoTags{}, fmt.Errorf("%w: ffprobe: %w", ErrReaderFailure, err)
	}

	modified, err := fileModifiedDate(path)
	if err != nil {
		return VideoTags{}, fmt.Errorf("%w: %w", ErrReaderFailure, err)
	}
	return parseFFprobeOutput(output, modified)
}

// parseFFprobeOutput converts ffprobe's JSON into VideoTags.
// creation_time is ISO 8601 with a Z suffix; only its wall clock is kept.
func parseFFprobeOutput(output []byte, modified string) (VideoTags, error) {
	var report ffprobeReport
	if err := json.Unmarshal(output, &report); err != nil {
		return VideoTags{}, fmt.Errorf("%w: parse ffprobe output: %w", ErrReaderFailure, err)
	}

	tags := VideoTags{FileModifiedDate: modified}

	if created := report.Format.Tags["creation_time"]; created != "" {
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			tags.EncodedDate = "UTC " + t.UTC().Format(encodedDateLayout)
		}
	}

	if secs, err := strconv.ParseFloat(strings.TrimSpace(report.Format.Duration), 64); err == nil {
		tags.Duration = strconv.FormatFloat(secs*1000, 'f', 0, 64)
	}

	for _, s := range report.Streams {
		if s.CodecType != "video" {
			continue
		}
		rate := s.AvgFrameRate
		if rate == "" || rate == "0/0" {
			rate = s.RFrameRate
		}
		if fps, ok := parseRational(rate); ok {
			tags.FrameRate = formatRate(fps)
		}
		break
	}
	return tags, nil
}

// parseRational parses "30000/1001" or "25" style rates
func parseRational(s string) (float64, bool) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	if !found {
		return n, n > 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, n > 0
}

// AutoVideoReader reads MOV/MP4 natively and hands everything else,
// or anything the native reader rejects, to ffprobe.
type AutoVideoReader struct {
	Native  VideoReader
	FFprobe VideoReader // nil when ffprobe is not installed
}

func (r AutoVideoReader) Open(path string) (VideoTags, error) {
	var nativeErr error
	if r.Native != nil && isISOBaseMedia(path) {
		tags, err := r.Native.Open(path)
		if err == nil {
			return tags, nil
		}
		nativeErr = err
	}

	if r.FFprobe == nil {
		if nativeErr != nil {
			return VideoTags{}, nativeErr
		}
		return VideoTags{}, fmt.Errorf("%w: no reader for %s", ErrReaderFailure, Extension(path))
	}
	return r.FFprobe.Open(path)
}

func isISOBaseMedia(path string) bool {
	switch strings.ToLower(Extension(path)) {
	case "mov", "mp4":
		return true
	}
	return false
}
