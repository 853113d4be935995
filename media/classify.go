package media

import (
	"math"
	"strings"
)

// Extension allow-lists. Case variants are listed explicitly; matching is case sensitive.
var (
	StillExtensions = []string{"JPG", "jpg", "ARW", "arw", "CR2", "cr2", "TIF", "tif"}
	VideoExtensions = []string{"MOV", "mov", "MP4", "mp4", "MTS", "mts"}
)

// Classify builds an Item for the file name found in dir
func Classify(dir, name string) Item {
	ext := Extension(name)
	return Item{
		Dir:          dir,
		Name:         name,
		Ext:          ext,
		Kind:         KindOf(ext),
		SequenceHint: SequenceHint(name),
	}
}

// Extension returns the part of name after the last dot, or the whole name when there is none
func Extension(name string) string {
	return name[strings.LastIndex(name, ".")+1:]
}

// KindOf maps an extension to its media kind
func KindOf(ext string) Kind {
	for _, v := range StillExtensions {
		if v == ext {
			return Still
		}
	}
	for _, v := range VideoExtensions {
		if v == ext {
			return Video
		}
	}
	return Unknown
}

// SequenceHint parses the first run of decimal digits in name.
// Values too large for an int64 saturate.
func SequenceHint(name string) int64 {
	start := strings.IndexAny(name, "0123456789")
	if start < 0 {
		return 0
	}

	var n int64
	for i := start; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			break
		}
		d := int64(c - '0')
		if n > (math.MaxInt64-d)/10 {
			return math.MaxInt64
		}
		n = n*10 + d
	}
	return n
}
