package media

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMetadataMissing means an expected tag or field was absent or unparsable
	ErrMetadataMissing = errors.New("metadata missing")
	// ErrReaderFailure means a metadata reader could not open or parse the file at all
	ErrReaderFailure = errors.New("metadata reader failure")
	// ErrDestinationExists is returned when a commit would replace an existing file
	ErrDestinationExists = errors.New("destination already exists")
	// ErrDirectoryUnavailable is returned for items whose target directory could not be created
	ErrDirectoryUnavailable = errors.New("target directory unavailable")
)

// ItemError records a per-item failure without aborting the batch
type ItemError struct {
	Path string
	Op   string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// TraversalError records a directory that could not be read
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("read directory %s: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() error { return e.Err }

// TraversalErrors is returned by Scan when at least one directory was unreadable
type TraversalErrors []*TraversalError

func (errs TraversalErrors) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d directories could not be read: %s", len(errs), strings.Join(msgs, "; "))
}

func (errs TraversalErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}
