package ui

import "github.com/lepinkainen/mediaimport/media"

// TUI message types sent from the commit goroutine

type ItemCommittedMsg struct {
	Source string
	Target string
	Error  error
}

type CommitDoneMsg struct {
	Report media.CommitReport
}
