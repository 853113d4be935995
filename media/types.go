package media

import (
	"path/filepath"
	"time"
)

// Kind is the media category derived from a file extension
type Kind int

const (
	Unknown Kind = iota
	Still
	Video
)

func (k Kind) String() string {
	switch k {
	case Still:
		return "still"
	case Video:
		return "video"
	default:
		return "unknown"
	}
}

// NoIndex marks an item whose timestamp is unique within its kind
const NoIndex = -1

// Item is a classified file found during traversal
type Item struct {
	Dir          string
	Name         string
	Ext          string // case preserved, without the dot
	Kind         Kind
	SequenceHint int64 // first digit run in Name, 0 if none
}

// Path returns the full path of the original file
func (i Item) Path() string {
	return filepath.Join(i.Dir, i.Name)
}

// ResolvedItem is an Item with its capture timestamp resolved
type ResolvedItem struct {
	Item
	Timestamp       time.Time
	Source          Outcome
	FallbackReason  error
	FrameRate       float64
	NonStandardRate bool
}

// SequencedItem carries the same-second disambiguation index
type SequencedItem struct {
	ResolvedItem
	Index int
}

// PlannedItem is ready to be committed to disk
type PlannedItem struct {
	SequencedItem
	Prefix     string
	Suffix     string
	TargetDir  string
	TargetName string
}

// Target returns the full destination path
func (p PlannedItem) Target() string {
	return filepath.Join(p.TargetDir, p.TargetName)
}
