package media

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/barasher/go-exiftool"
	"github.com/rwcarlsen/goexif/exif"
)

// StillReader reads the original capture date-time tag of a still image.
// The value is returned verbatim in EXIF form, "YYYY:MM:DD HH:MM:SS".
type StillReader interface {
	DateTimeOriginal(path string) (string, error)
}

// GoexifReader reads EXIF with the pure Go goexif decoder.
// TIFF based raw formats (ARW, CR2, TIF) are handled by the same decoder.
type GoexifReader struct{}

func (GoexifReader) DateTimeOriginal(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReaderFailure, err)
	}
	defer func() { _ = f.Close() }()

	x, err := exif.Decode(f)
	if err != nil {
		return "", fmt.Errorf("%w: decode exif: %w", ErrMetadataMissing, err)
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMetadataMissing, err)
	}

	value, err := tag.StringVal()
	if err != nil {
		return "", fmt.Errorf("%w: DateTimeOriginal: %w", ErrMetadataMissing, err)
	}
	return strings.TrimRight(strings.TrimSpace(value), "\x00"), nil
}

// ExiftoolReader delegates to a long running exiftool process.
// The process is started on first use and must be released with Close.
type ExiftoolReader struct {
	mu sync.Mutex
	et *exiftool.Exiftool
}

func (r *ExiftoolReader) ensure() (*exiftool.Exiftool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.et != nil {
		return r.et, nil
	}
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("start exiftool: %w", err)
	}
	r.et = et
	return et, nil
}

func (r *ExiftoolReader) DateTimeOriginal(path string) (string, error) {
	et, err := r.ensure()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReaderFailure, err)
	}

	for _, fm := range et.ExtractMetadata(path) {
		if fm.Err != nil {
			return "", fmt.Errorf("%w: %w", ErrReaderFailure, fm.Err)
		}
		if value, ok := fm.Fields["DateTimeOriginal"].(string); ok && value != "" {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: DateTimeOriginal not present", ErrMetadataMissing)
}

// Close stops the exiftool process if it was started
func (r *ExiftoolReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.et == nil {
		return nil
	}
	err := r.et.Close()
	r.et = nil
	return err
}
