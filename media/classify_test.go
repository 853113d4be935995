package media

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_AllowLists(t *testing.T) {
	for _, ext := range StillExtensions {
		item := Classify("/card", "IMG_0001."+ext)
		assert.Equal(t, Still, item.Kind, "extension %s", ext)
		assert.Equal(t, ext, item.Ext)
	}
	for _, ext := range VideoExtensions {
		item := Classify("/card", "C0001."+ext)
		assert.Equal(t, Video, item.Kind, "extension %s", ext)
	}
}

func TestClassify_Unknown(t *testing.T) {
	tests := []string{
		"notes.txt",
		"IMG_0001.Jpg", // mixed case is not in the allow-list
		"IMG_0001.jpeg",
		"THMBNL.xml",
		"README",
		"archive.tar.gz",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, Unknown, Classify("/card", name).Kind)
		})
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"IMG_0001.JPG":   "JPG",
		"a.b.mts":        "mts",
		"README":         "README",
		"trailing.":      "",
		".hidden.jpg":    "jpg",
		"clip.MP4":       "MP4",
		"noext_with_123": "noext_with_123",
	}
	for name, want := range tests {
		assert.Equal(t, want, Extension(name), name)
	}
}

func TestSequenceHint(t *testing.T) {
	tests := []struct {
		name string
		want int64
	}{
		{"IMG_045.JPG", 45},
		{"noNumbers.jpg", 0},
		{"a1b22c", 1},
		{"DSC09876.ARW", 9876},
		{"2021-06-01 14-30-05-01.jpg", 2021},
		{"C0001.MP4", 1},
		{"00000.MTS", 0},
		{"IMG_99999999999999999999999.JPG", math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SequenceHint(tt.name))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "still", Still.String())
	assert.Equal(t, "video", Video.String())
	assert.Equal(t, "unknown", Unknown.String())
}
