package media

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"time"
)

const (
	stillNameLayout = "2006-01-02 15-04-05"
	videoNameLayout = "06-01-02 15-04-05"
	dateDirLayout   = "2006_01_02"
)

// Layout decides where planned files go
type Layout struct {
	StillsRoot string
	VideosRoot string
	InPlace    bool // keep every file in its origin directory
}

// Dir returns the destination directory for an item of kind captured at ts
func (l Layout) Dir(kind Kind, ts time.Time, originDir string) string {
	if l.InPlace {
		return originDir
	}
	root := l.StillsRoot
	if kind == Video {
		root = l.VideosRoot
	}
	return filepath.Join(root, ts.Format(dateDirLayout))
}

// StillName builds "YYYY-MM-DD HH-MM-SS[-NN].ext"
func StillName(item SequencedItem) string {
	return item.Timestamp.Format(stillNameLayout) + stillSuffix(item) + "." + item.Ext
}

func stillSuffix(item SequencedItem) string {
	if item.Index == NoIndex {
		return ""
	}
	return fmt.Sprintf("-%02d", item.Index)
}

// VideoName builds "V<ordinal>_yy-mm-dd HH-MM-SS[_<rate>FPS].ext" and returns
// the prefix and suffix decorations alongside the name
func VideoName(ordinal int, item SequencedItem) (prefix, suffix, name string) {
	prefix = fmt.Sprintf("V%d_", ordinal)
	if item.NonStandardRate {
		suffix = fmt.Sprintf("_%dFPS", int(item.FrameRate))
	}
	name = prefix + item.Timestamp.Format(videoNameLayout) + suffix + "." + item.Ext
	return prefix, suffix, name
}

// PlanStills names still items and places them under the layout
func PlanStills(items []SequencedItem, layout Layout) []PlannedItem {
	planned := make([]PlannedItem, 0, len(items))
	for _, item := range items {
		planned = append(planned, PlannedItem{
			SequencedItem: item,
			Suffix:        stillSuffix(item),
			TargetDir:     layout.Dir(Still, item.Timestamp, item.Dir),
			TargetName:    StillName(item),
		})
	}
	return planned
}

// PlanVideos orders videos by timestamp and numbers them with a batch wide ordinal
func PlanVideos(items []SequencedItem, layout Layout) []PlannedItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b SequencedItem) int {
		return cmp.Compare(a.Timestamp.Unix(), b.Timestamp.Unix())
	})

	planned := make([]PlannedItem, 0, len(sorted))
	for ordinal, item := range sorted {
		prefix, suffix, name := VideoName(ordinal, item)
		planned = append(planned, PlannedItem{
			SequencedItem: item,
			Prefix:        prefix,
			Suffix:        suffix,
			TargetDir:     layout.Dir(Video, item.Timestamp, item.Dir),
			TargetName:    name,
		})
	}
	return planned
}
