package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/mediaimport/media"
)

func TestCommitModelTracksProgress(t *testing.T) {
	var model tea.Model = NewCommitModel(2, "test")

	model, _ = model.Update(ItemCommittedMsg{Source: "/card/IMG_1.JPG", Target: "2021_06_01/2021-06-01 14-30-05.JPG"})
	model, _ = model.Update(ItemCommittedMsg{Source: "/card/IMG_2.JPG", Target: "2021_06_01/x.JPG", Error: errors.New("destination already exists")})

	m := model.(CommitModel)
	if m.processedFiles != 2 || m.failedFiles != 1 {
		t.Fatalf("Expected 2 processed and 1 failed, got %d and %d", m.processedFiles, m.failedFiles)
	}
	if len(m.fileEntries) != 2 || m.fileEntries[1].Status != "❌" {
		t.Fatalf("Unexpected file log: %+v", m.fileEntries)
	}

	view := m.View()
	if !strings.Contains(view, "(2/2)") {
		t.Errorf("Expected progress counter in view, got:\n%s", view)
	}
	if !strings.Contains(view, "1 failed") {
		t.Errorf("Expected failure count in view, got:\n%s", view)
	}
}

func TestCommitModelQuitsWhenDone(t *testing.T) {
	model := NewCommitModel(1, "test")

	next, cmd := model.Update(CommitDoneMsg{Report: media.CommitReport{Succeeded: 1, Bytes: 2048}})
	if cmd == nil {
		t.Fatal("Expected quit command when the commit finishes")
	}
	if !next.(CommitModel).Done() {
		t.Error("Expected model to record the final report")
	}
}

func TestFileLogEntryDescription(t *testing.T) {
	ok := FileLogEntry{OriginalName: "a.JPG", NewName: "b.JPG"}
	if !strings.Contains(ok.Description(), "b.JPG") {
		t.Errorf("Unexpected description: %s", ok.Description())
	}

	failed := FileLogEntry{OriginalName: "a.JPG", Error: "boom"}
	if !strings.Contains(failed.Description(), "boom") {
		t.Errorf("Unexpected description: %s", failed.Description())
	}
	if failed.FilterValue() != "a.JPG" {
		t.Errorf("Unexpected filter value: %s", failed.FilterValue())
	}
}
