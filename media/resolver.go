package media

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/djherbis/times"
)

// Outcome tags how a timestamp was obtained
type Outcome int

const (
	// Resolved means the capture time came from embedded metadata
	Resolved Outcome = iota
	// Fallback means metadata was missing and a filesystem derived time was used
	Fallback
	// Failed means no timestamp could be produced; the item is excluded
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "metadata"
	case Fallback:
		return "fallback"
	default:
		return "failed"
	}
}

// nameLayout is the re-delimited form every timestamp passes through before parsing
const nameLayout = "2006-01-02 15-04-05"

const (
	// DefaultExpectedFrameRate is the rate the editing pipeline expects
	DefaultExpectedFrameRate = 25.0
	// DefaultFallbackOffset corrects the zone of modification-time derived video starts
	DefaultFallbackOffset = 2 * time.Hour
)

// Resolution is the result of resolving one item
type Resolution struct {
	Outcome         Outcome
	Time            time.Time
	FrameRate       float64
	NonStandardRate bool
	Reason          error // why a fallback was used, or why resolution failed
}

// Resolver turns classified items into timestamp resolved items
type Resolver struct {
	Stills            StillReader
	Videos            VideoReader
	Location          *time.Location // zone wall-clock metadata is read in; nil means time.Local
	ExpectedFrameRate float64
	FallbackOffset    time.Duration
}

// NewResolver returns a resolver with the default frame rate and offset
func NewResolver(stills StillReader, videos VideoReader) *Resolver {
	return &Resolver{
		Stills:            stills,
		Videos:            videos,
		Location:          time.Local,
		ExpectedFrameRate: DefaultExpectedFrameRate,
		FallbackOffset:    DefaultFallbackOffset,
	}
}

func (r *Resolver) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

// Resolve runs the fallback chain for a single item
func (r *Resolver) Resolve(item Item) Resolution {
	switch item.Kind {
	case Still:
		return r.resolveStill(item)
	case Video:
		return r.resolveVideo(item)
	default:
		return Resolution{Outcome: Failed, Reason: fmt.Errorf("unsupported extension %q", item.Ext)}
	}
}

// Apply resolves the item and returns the next stage value.
// The error is non-nil exactly when the outcome is Failed.
func (r *Resolver) Apply(item Item) (ResolvedItem, Resolution, error) {
	res := r.Resolve(item)
	if res.Outcome == Failed {
		return ResolvedItem{}, res, &ItemError{Path: item.Path(), Op: "resolve", Err: res.Reason}
	}

	resolved := ResolvedItem{
		Item:            item,
		Timestamp:       res.Time,
		Source:          res.Outcome,
		FrameRate:       res.FrameRate,
		NonStandardRate: res.NonStandardRate,
	}
	if res.Outcome == Fallback {
		resolved.FallbackReason = res.Reason
	}
	return resolved, res, nil
}

func (r *Resolver) resolveStill(item Item) Resolution {
	path := item.Path()

	var reason error
	if r.Stills == nil {
		reason = fmt.Errorf("%w: no still reader configured", ErrMetadataMissing)
	} else if raw, err := r.Stills.DateTimeOriginal(path); err != nil {
		reason = err
	} else if t, err := r.parseNameTime(strings.ReplaceAll(strings.TrimSpace(raw), ":", "-")); err != nil {
		reason = fmt.Errorf("%w: DateTimeOriginal %q: %w", ErrMetadataMissing, raw, err)
	} else {
		return Resolution{Outcome: Resolved, Time: t}
	}

	ts, err := times.Stat(path)
	if err != nil {
		return Resolution{Outcome: Failed, Reason: errors.Join(reason, fmt.Errorf("stat: %w", err))}
	}
	t, err := r.parseNameTime(ts.ModTime().In(r.location()).Format(nameLayout))
	if err != nil {
		return Resolution{Outcome: Failed, Reason: errors.Join(reason, err)}
	}
	return Resolution{Outcome: Fallback, Time: t, Reason: reason}
}

func (r *Resolver) resolveVideo(item Item) Resolution {
	if r.Videos == nil {
		return Resolution{Outcome: Failed, Reason: fmt.Errorf("%w: no video reader configured", ErrReaderFailure)}
	}

	tags, err := r.Videos.Open(item.Path())
	if err != nil {
		if !errors.Is(err, ErrReaderFailure) {
			err = fmt.Errorf("%w: %w", ErrReaderFailure, err)
		}
		return Resolution{Outcome: Failed, Reason: err}
	}

	var res Resolution
	if tags.EncodedDate != "" {
		t, err := r.parseLabelled(tags.EncodedDate, encodedDateLayout)
		if err == nil {
			res = Resolution{Outcome: Resolved, Time: t}
		} else {
			res = r.videoFallback(tags, fmt.Errorf("%w: Encoded_Date %q: %w", ErrMetadataMissing, tags.EncodedDate, err))
		}
	} else {
		res = r.videoFallback(tags, fmt.Errorf("%w: Encoded_Date not present", ErrMetadataMissing))
	}
	if res.Outcome == Failed {
		return res
	}

	if fps, err := strconv.ParseFloat(strings.TrimSpace(tags.FrameRate), 64); err == nil {
		res.FrameRate = fps
		res.NonStandardRate = fps != r.ExpectedFrameRate
	}
	return res
}

// videoFallback reconstructs the recording start as file close time minus duration.
// The modification time is genuinely UTC, so the configured offset brings it to local wall clock.
func (r *Resolver) videoFallback(tags VideoTags, reason error) Resolution {
	modified, err := parseLabelledIn(tags.FileModifiedDate, encodedDateLayout, time.UTC)
	if err != nil {
		return Resolution{Outcome: Failed, Reason: errors.Join(reason, fmt.Errorf("%w: File_Modified_Date %q: %w", ErrMetadataMissing, tags.FileModifiedDate, err))}
	}
	ms, err := strconv.ParseFloat(strings.TrimSpace(tags.Duration), 64)
	if err != nil {
		return Resolution{Outcome: Failed, Reason: errors.Join(reason, fmt.Errorf("%w: Duration %q: %w", ErrMetadataMissing, tags.Duration, err))}
	}

	start := modified.Add(-time.Duration(ms * float64(time.Millisecond))).Add(r.FallbackOffset)
	t, err := r.parseNameTime(start.Format(nameLayout))
	if err != nil {
		return Resolution{Outcome: Failed, Reason: errors.Join(reason, err)}
	}
	return Resolution{Outcome: Fallback, Time: t, Reason: reason}
}

func (r *Resolver) parseNameTime(s string) (time.Time, error) {
	return time.ParseInLocation(nameLayout, s, r.location())
}

// parseLabelled drops the leading zone label and reads the wall clock in the resolver location.
// Cameras label local time as UTC, so no conversion is applied.
func (r *Resolver) parseLabelled(s, layout string) (time.Time, error) {
	t, err := parseLabelledIn(s, layout, r.location())
	if err != nil {
		return time.Time{}, err
	}
	return t.Truncate(time.Second), nil
}

func parseLabelledIn(s, layout string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if label, rest, ok := strings.Cut(s, " "); ok && !strings.ContainsAny(label, "0123456789") {
		s = rest
	}
	return time.ParseInLocation(layout, s, loc)
}
