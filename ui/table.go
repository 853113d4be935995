package ui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/lepinkainen/mediaimport/journal"
	"github.com/lepinkainen/mediaimport/media"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// PlanTable lists every planned item with its source and destination
func PlanTable(items []media.PlannedItem) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Path(),
			filepath.Join(filepath.Base(item.TargetDir), item.TargetName),
			item.Kind.String(),
			item.Source.String(),
		})
	}
	return renderTable(
		[]string{"Source", "Target", "Kind", "Time From"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

// ProbeRow is one resolved file for the probe table
type ProbeRow struct {
	Path       string
	Resolution media.Resolution
	Proposed   string // empty when resolution failed
}

// ProbeTable shows how each file would be resolved and named
func ProbeTable(rows []ProbeRow) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		ts := "-"
		if r.Resolution.Outcome != media.Failed {
			ts = r.Resolution.Time.Format("2006-01-02 15:04:05 MST")
		}
		rate := "-"
		if r.Resolution.FrameRate > 0 {
			rate = fmt.Sprintf("%.3f", r.Resolution.FrameRate)
			if r.Resolution.NonStandardRate {
				rate += " *"
			}
		}
		reason := ""
		if r.Resolution.Reason != nil {
			reason = r.Resolution.Reason.Error()
		}
		out = append(out, []string{r.Path, ts, r.Resolution.Outcome.String(), rate, r.Proposed, reason})
	}
	return renderTable(
		[]string{"File", "Timestamp", "Source", "FPS", "Proposed Name", "Note"},
		out,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
}

// HistoryTable lists journal batches, newest first
func HistoryTable(batches []journal.Batch, now time.Time) string {
	rows := make([][]string, 0, len(batches))
	for _, b := range batches {
		rows = append(rows, []string{
			shortID(b.ID),
			humanize.RelTime(b.StartedAt, now, "ago", "from now"),
			b.Command,
			b.Mode,
			b.Source,
			fmt.Sprintf("%d", b.Succeeded),
			fmt.Sprintf("%d", b.Failed),
			humanize.Bytes(uint64(max(b.Bytes, 0))),
		})
	}
	return renderTable(
		[]string{"Batch", "When", "Command", "Mode", "Source", "OK", "Failed", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
}

// EntriesTable lists the items of one journal batch
func EntriesTable(entries []journal.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := "✓"
		if e.Error != "" {
			status = "❌ " + e.Error
		}
		rows = append(rows, []string{e.Source, e.Target, e.Kind, e.Origin, status})
	}
	return renderTable(
		[]string{"Source", "Target", "Kind", "Time From", "Status"},
		rows,
		nil,
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
