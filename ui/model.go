package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/lepinkainen/mediaimport/media"
)

// File log entry for the committed files list
type FileLogEntry struct {
	OriginalName string
	NewName      string
	Status       string // "✓", "❌"
	Error        string
}

func (f FileLogEntry) FilterValue() string { return f.OriginalName }
func (f FileLogEntry) Title() string       { return f.OriginalName }
func (f FileLogEntry) Description() string {
	if f.Error != "" {
		return fmt.Sprintf("❌ %s", f.Error)
	}
	return fmt.Sprintf("✓ → %s", f.NewName)
}

// CommitModel shows the progress of a running commit
type CommitModel struct {
	// Application state
	totalFiles     int
	processedFiles int
	failedFiles    int
	fileEntries    []FileLogEntry
	report         *media.CommitReport

	// UI components
	overallProgress progress.Model
	fileList        list.Model

	// Layout
	width  int
	height int

	quitting bool

	// Version for display
	Version string
}

// NewCommitModel creates a new commit progress model
func NewCommitModel(numFiles int, version string) CommitModel {
	fileList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	fileList.Title = "Committed Files"

	return CommitModel{
		totalFiles:      numFiles,
		overallProgress: progress.New(progress.WithDefaultGradient()),
		fileList:        fileList,
		Version:         version,
	}
}

// Init implements tea.Model
func (m CommitModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m CommitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			// The commit itself keeps running; only the view is closed
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fileList.SetSize(msg.Width-4, msg.Height/2)

	case ItemCommittedMsg:
		m.processedFiles++
		entry := FileLogEntry{
			OriginalName: msg.Source,
			NewName:      msg.Target,
			Status:       "✓",
		}
		if msg.Error != nil {
			m.failedFiles++
			entry.Status = "❌"
			entry.Error = msg.Error.Error()
		}

		m.fileEntries = append(m.fileEntries, entry)
		items := make([]list.Item, len(m.fileEntries))
		for i, entry := range m.fileEntries {
			items[i] = entry
		}
		m.fileList.SetItems(items)
		m.fileList.Select(len(items) - 1)

	case CommitDoneMsg:
		report := msg.Report
		m.report = &report
		return m, tea.Quit
	}

	return m, nil
}

// Done reports whether the commit finished while the view was open
func (m CommitModel) Done() bool {
	return m.report != nil
}

// View implements tea.Model
func (m CommitModel) View() string {
	if m.quitting {
		return "Closing view, the commit continues in the background...\n"
	}

	header := HeaderStyle.Render(fmt.Sprintf("MediaImport %s", m.Version))

	percent := 0.0
	if m.totalFiles > 0 {
		percent = float64(m.processedFiles) / float64(m.totalFiles)
	}
	overallView := fmt.Sprintf("Overall Progress: %s (%d/%d)",
		m.overallProgress.ViewAs(percent),
		m.processedFiles,
		m.totalFiles)

	status := SuccessStyle.Render(fmt.Sprintf("%d ok", m.processedFiles-m.failedFiles))
	if m.failedFiles > 0 {
		status += "  " + ErrorStyle.Render(fmt.Sprintf("%d failed", m.failedFiles))
	}
	if m.report != nil {
		status += "  " + InfoStyle.Render(humanize.Bytes(uint64(m.report.Bytes))+" written")
	}

	sections := []string{
		header,
		overallView,
		status,
		m.fileList.View(),
		"Controls: [q] Close view",
	}
	return strings.Join(sections, "\n\n")
}

// RunCommitTUI commits items while a bubbletea view shows their progress.
// The commit runs in its own goroutine; the returned report is always complete.
func RunCommitTUI(c *media.Committer, items []media.PlannedItem, version string) (media.CommitReport, error) {
	p := tea.NewProgram(NewCommitModel(len(items), version))

	committer := *c
	committer.OnItem = func(item media.PlannedItem, err error) {
		if c.OnItem != nil {
			c.OnItem(item, err)
		}
		p.Send(ItemCommittedMsg{
			Source: item.Path(),
			Target: filepath.Join(filepath.Base(item.TargetDir), item.TargetName),
			Error:  err,
		})
	}

	done := make(chan media.CommitReport, 1)
	go func() {
		report := committer.Commit(items)
		done <- report
		p.Send(CommitDoneMsg{Report: report})
	}()

	if _, err := p.Run(); err != nil {
		// The view failed but the commit goroutine still finishes
		return <-done, fmt.Errorf("commit view: %w", err)
	}
	return <-done, nil
}
