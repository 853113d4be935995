package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lepinkainen/mediaimport/journal"
	"github.com/lepinkainen/mediaimport/media"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "only") {
		t.Fatalf("Expected row content in table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Error("Expected empty output without headers")
	}
}

func TestPlanTable(t *testing.T) {
	out := PlanTable(samplePlan())
	for _, want := range []string{"IMG_1.JPG", "2021_06_02", "2021-06-01 14-30-05-01.JPG", "video"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in plan table:\n%s", want, out)
		}
	}
}

func TestProbeTable(t *testing.T) {
	out := ProbeTable([]ProbeRow{
		{
			Path: "/card/C0001.MP4",
			Resolution: media.Resolution{
				Outcome:         media.Resolved,
				Time:            time.Date(2021, 6, 1, 14, 30, 5, 0, time.UTC),
				FrameRate:       50,
				NonStandardRate: true,
			},
			Proposed: "V0_21-06-01 14-30-05_50FPS.MP4",
		},
		{
			Path:       "/card/broken.mov",
			Resolution: media.Resolution{Outcome: media.Failed, Reason: errors.New("metadata reader failure")},
		},
	})

	for _, want := range []string{"2021-06-01 14:30:05", "50.000 *", "V0_21-06-01 14-30-05_50FPS.MP4", "failed", "metadata reader failure"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in probe table:\n%s", want, out)
		}
	}
}

func TestHistoryAndEntriesTables(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	out := HistoryTable([]journal.Batch{{
		ID:        "0123456789abcdef",
		StartedAt: now.Add(-2 * time.Hour),
		Command:   "import",
		Mode:      "copy",
		Source:    "/media/card",
		Succeeded: 10,
		Bytes:     5 * 1000 * 1000,
	}}, now)

	for _, want := range []string{"01234567", "2 hours ago", "5.0 MB", "/media/card"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in history table:\n%s", want, out)
		}
	}
	if strings.Contains(out, "0123456789abcdef") {
		t.Error("Expected batch id to be shortened")
	}

	entries := EntriesTable([]journal.Entry{{Source: "/a.JPG", Target: "/b.JPG", Kind: "still", Error: "boom"}})
	if !strings.Contains(entries, "❌ boom") {
		t.Errorf("Expected failure status in entries table:\n%s", entries)
	}
}
