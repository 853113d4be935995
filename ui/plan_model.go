package ui

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/mediaimport/media"
)

// PlanGroup is every planned item landing in one target directory
type PlanGroup struct {
	Dir      string
	Items    []media.PlannedItem
	Selected []bool // which items will be committed
}

// PlanModel lets the user review a plan and deselect items before commit
type PlanModel struct {
	// Data
	groups       []PlanGroup
	currentGroup int
	currentItem  int

	// UI state
	width  int
	height int

	// Interaction state
	confirming bool
	showHelp   bool

	// Outcome
	confirmed bool
	quitting  bool
}

// NewPlanModel groups the planned items by target directory; everything starts selected
func NewPlanModel(items []media.PlannedItem) PlanModel {
	index := make(map[string]int)
	var groups []PlanGroup

	for _, item := range items {
		i, ok := index[item.TargetDir]
		if !ok {
			i = len(groups)
			index[item.TargetDir] = i
			groups = append(groups, PlanGroup{Dir: item.TargetDir})
		}
		groups[i].Items = append(groups[i].Items, item)
		groups[i].Selected = append(groups[i].Selected, true)
	}

	slices.SortStableFunc(groups, func(a, b PlanGroup) int {
		return strings.Compare(a.Dir, b.Dir)
	})

	return PlanModel{
		groups:   groups,
		showHelp: true,
	}
}

// Init implements tea.Model
func (m PlanModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m PlanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirming {
			return m.handleConfirmationInput(msg)
		}
		return m.handleNormalInput(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func (m PlanModel) handleNormalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.groups) == 0 {
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "h", "?":
		m.showHelp = !m.showHelp

	case "up", "k":
		if m.currentItem > 0 {
			m.currentItem--
		}

	case "down", "j":
		if m.currentItem < len(m.groups[m.currentGroup].Items)-1 {
			m.currentItem++
		}

	case "left", "p":
		if m.currentGroup > 0 {
			m.currentGroup--
			m.currentItem = 0
		}

	case "right", "n":
		if m.currentGroup < len(m.groups)-1 {
			m.currentGroup++
			m.currentItem = 0
		}

	case " ": // spacebar to toggle selection
		group := &m.groups[m.currentGroup]
		group.Selected[m.currentItem] = !group.Selected[m.currentItem]

	case "a": // select all items in current group
		group := &m.groups[m.currentGroup]
		for i := range group.Selected {
			group.Selected[i] = true
		}

	case "c": // clear all selections in current group
		group := &m.groups[m.currentGroup]
		for i := range group.Selected {
			group.Selected[i] = false
		}

	case "enter":
		if m.SelectedCount() > 0 {
			m.confirming = true
		}
	}

	return m, nil
}

func (m PlanModel) handleConfirmationInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirming = false
		m.confirmed = true
		return m, tea.Quit

	case "n", "N", "ctrl+c", "esc":
		m.confirming = false
	}

	return m, nil
}

// Confirmed reports whether the user accepted the selection
func (m PlanModel) Confirmed() bool {
	return m.confirmed
}

// SelectedCount counts the selected items across all groups
func (m PlanModel) SelectedCount() int {
	n := 0
	for _, group := range m.groups {
		for _, selected := range group.Selected {
			if selected {
				n++
			}
		}
	}
	return n
}

// Selected returns the selected items, grouped by target directory
func (m PlanModel) Selected() []media.PlannedItem {
	var items []media.PlannedItem
	for _, group := range m.groups {
		for i, selected := range group.Selected {
			if selected {
				items = append(items, group.Items[i])
			}
		}
	}
	return items
}

// View implements tea.Model
func (m PlanModel) View() string {
	if m.quitting {
		return "Import cancelled.\n"
	}
	if m.confirmed {
		return ""
	}

	if len(m.groups) == 0 {
		return SuccessStyle.MarginTop(2).MarginLeft(2).Render("✅ Nothing to import.\n\nPress 'q' to quit.")
	}

	if m.confirming {
		return m.renderConfirmationDialog()
	}

	return m.renderMainView()
}

func (m PlanModel) renderConfirmationDialog() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render("Confirm Import"))
	content.WriteString("\n\n")
	content.WriteString(fmt.Sprintf("Commit %d of %d file(s) into %d directories?\n\n",
		m.SelectedCount(), m.total(), m.selectedDirs()))
	content.WriteString("Press 'y' to confirm, 'n' to go back")

	return content.String()
}

func (m PlanModel) total() int {
	n := 0
	for _, group := range m.groups {
		n += len(group.Items)
	}
	return n
}

func (m PlanModel) selectedDirs() int {
	n := 0
	for _, group := range m.groups {
		if slices.Contains(group.Selected, true) {
			n++
		}
	}
	return n
}

func (m PlanModel) renderMainView() string {
	var content strings.Builder

	header := fmt.Sprintf("MediaImport - Review Plan (Directory %d of %d)",
		m.currentGroup+1, len(m.groups))
	content.WriteString(HeaderStyle.Render(header))
	content.WriteString("\n\n")

	group := m.groups[m.currentGroup]
	content.WriteString(InfoStyle.Render(fmt.Sprintf("%s (%d files, %d selected overall)",
		group.Dir, len(group.Items), m.SelectedCount())))
	content.WriteString("\n\n")

	content.WriteString(m.renderItemList(group))
	content.WriteString("\n")

	if m.showHelp {
		content.WriteString(m.renderHelp())
	} else {
		content.WriteString("Press 'h' for help")
	}

	return content.String()
}

func (m PlanModel) renderItemList(group PlanGroup) string {
	var content strings.Builder

	sources := make([]string, len(group.Items))
	for i, item := range group.Items {
		sources[i] = item.Path()
	}
	optimizedPaths := optimizePaths(sources)

	for i, item := range group.Items {
		var line strings.Builder

		if group.Selected[i] {
			line.WriteString("[✓] ")
		} else {
			line.WriteString("[ ] ")
		}

		name := item.TargetName
		if i == m.currentItem {
			if group.Selected[i] {
				line.WriteString(SelectedStyle.Reverse(true).Render(name))
			} else {
				line.WriteString(lipgloss.NewStyle().Reverse(true).Render(name))
			}
		} else {
			if group.Selected[i] {
				line.WriteString(SelectedStyle.Render(name))
			} else {
				line.WriteString(DimStyle.Render(name))
			}
		}

		line.WriteString(fmt.Sprintf(" ← %s", optimizedPaths[i]))
		if tag := OutcomeTag(item.Source); tag != "" {
			line.WriteString("  " + tag)
		}
		content.WriteString(line.String())
		content.WriteString("\n")
	}

	return content.String()
}

// optimizePaths finds the common path prefix and returns optimized display paths
// that show only the meaningful differences, keeping the topmost directory for context
func optimizePaths(paths []string) []string {
	if len(paths) <= 1 {
		return paths
	}

	pathComponents := make([][]string, len(paths))
	for i, path := range paths {
		pathComponents[i] = strings.Split(filepath.Clean(path), string(filepath.Separator))
	}

	// The last component is the file name and never part of the shared prefix
	maxLength := len(pathComponents[0]) - 1
	for _, components := range pathComponents[1:] {
		maxLength = min(maxLength, len(components)-1)
	}

	commonPrefixLength := 0
	for i := 0; i < maxLength; i++ {
		first := pathComponents[0][i]
		allMatch := true
		for j := 1; j < len(pathComponents); j++ {
			if pathComponents[j][i] != first {
				allMatch = false
				break
			}
		}
		if !allMatch {
			break
		}
		commonPrefixLength = i + 1
	}

	result := make([]string, len(paths))
	for i, components := range pathComponents {
		// Keep one level of context
		startIndex := max(commonPrefixLength-1, 0)
		result[i] = filepath.Join(components[startIndex:]...)
		if startIndex > 0 {
			result[i] = "..." + string(filepath.Separator) + result[i]
		}
	}

	return result
}

// RunPlanReview opens the review view and returns the accepted items.
// ok is false when the user quit without confirming.
func RunPlanReview(items []media.PlannedItem) (selected []media.PlannedItem, ok bool, err error) {
	final, err := tea.NewProgram(NewPlanModel(items), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, false, fmt.Errorf("plan review: %w", err)
	}
	m, _ := final.(PlanModel)
	if !m.Confirmed() {
		return nil, false, nil
	}
	return m.Selected(), true, nil
}

func (m PlanModel) renderHelp() string {
	help := []string{
		"",
		"Navigation:",
		"  ↑/↓ or j/k   Navigate files in current directory",
		"  ←/→ or p/n   Previous/Next target directory",
		"",
		"Selection:",
		"  Space        Toggle file selection",
		"  a            Select all files in directory",
		"  c            Clear all selections in directory",
		"",
		"Actions:",
		"  Enter        Commit all selected files (with confirmation)",
		"  h/?          Toggle this help",
		"  q            Quit without importing",
		"",
	}

	return strings.Join(help, "\n")
}
