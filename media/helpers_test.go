package media

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeStillReader returns canned DateTimeOriginal values keyed by file name.
// When contentAsDate is set, the file content itself is returned as the tag value.
type fakeStillReader struct {
	dates         map[string]string
	errs          map[string]error
	contentAsDate bool
}

func (f fakeStillReader) DateTimeOriginal(path string) (string, error) {
	name := filepath.Base(path)
	if err, ok := f.errs[name]; ok {
		return "", err
	}
	if f.contentAsDate {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Join(ErrReaderFailure, err)
		}
		return string(data), nil
	}
	if date, ok := f.dates[name]; ok {
		return date, nil
	}
	return "", ErrMetadataMissing
}

// fakeVideoReader returns canned tags keyed by file name. When contentAsTags is set,
// the file content "<Encoded_Date>|<FrameRate>" is returned instead, so renamed files keep their tags.
type fakeVideoReader struct {
	tags          map[string]VideoTags
	errs          map[string]error
	contentAsTags bool
}

func (f fakeVideoReader) Open(path string) (VideoTags, error) {
	name := filepath.Base(path)
	if err, ok := f.errs[name]; ok {
		return VideoTags{}, err
	}
	if f.contentAsTags {
		data, err := os.ReadFile(path)
		if err != nil {
			return VideoTags{}, errors.Join(ErrReaderFailure, err)
		}
		encoded, rate, _ := strings.Cut(string(data), "|")
		return VideoTags{EncodedDate: encoded, FrameRate: rate}, nil
	}
	if tags, ok := f.tags[name]; ok {
		return tags, nil
	}
	return VideoTags{}, errors.New("no such fake video")
}

// writeFile creates path with content and sets its modification time
func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	if !mtime.IsZero() {
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
}
