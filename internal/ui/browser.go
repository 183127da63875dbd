// Package ui renders a computed schedule as an interactive terminal browser:
// downlink passes per station, imaging intervals, and run totals.
package ui

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"satsched/internal/report"
	"satsched/internal/timeline"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	totalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	borderStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

const helpText = "left/right: filter station · tab: downlinks/imaging · up/down: scroll · q: quit"

// Model is the bubbletea model of the schedule browser.
type Model struct {
	downlinks []report.DownlinkRow
	imagings  []report.ImagingRow

	facilities []string // index 0 is the all-stations view
	facIdx     int

	table       table.Model
	vp          viewport.Model
	showImaging bool
	width       int
	height      int
}

// New builds a browser over flattened schedule rows.
func New(downlinks []report.DownlinkRow, imagings []report.ImagingRow) Model {
	seen := make(map[string]bool)
	facilities := []string{"all stations"}
	for _, d := range downlinks {
		if !seen[d.Facility] {
			seen[d.Facility] = true
			facilities = append(facilities, d.Facility)
		}
	}
	sort.Strings(facilities[1:])

	sort.Slice(downlinks, func(i, j int) bool { return downlinks[i].Start < downlinks[j].Start })
	sort.Slice(imagings, func(i, j int) bool { return imagings[i].Start < imagings[j].Start })

	m := Model{
		downlinks:  downlinks,
		imagings:   imagings,
		facilities: facilities,
		vp:         viewport.New(0, 0),
	}
	m.width, m.height = terminalSize()
	m.table = table.New(
		table.WithColumns(downlinkColumns()),
		table.WithRows(m.downlinkRows()),
		table.WithFocused(true),
	)
	m.resize()
	return m
}

func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w, h
	}
	return 80, 24
}

func downlinkColumns() []table.Column {
	return []table.Column{
		{Title: "Station", Width: 14},
		{Title: "Satellite", Width: 16},
		{Title: "Start", Width: 24},
		{Title: "Stop", Width: 24},
		{Title: "MiB", Width: 12},
	}
}

func (m *Model) downlinkRows() []table.Row {
	var rows []table.Row
	for _, d := range m.downlinks {
		if m.facIdx > 0 && d.Facility != m.facilities[m.facIdx] {
			continue
		}
		rows = append(rows, table.Row{
			d.Facility,
			d.Satellite,
			timeline.Format(d.Start),
			timeline.Format(d.Stop),
			fmt.Sprintf("%d.%03d", d.DataMilli/1000, d.DataMilli%1000),
		})
	}
	return rows
}

func (m *Model) imagingContent() string {
	var out string
	for _, r := range m.imagings {
		out += fmt.Sprintf("%-16s  %24s  %24s  %10d.%03d MiB\n",
			r.Satellite, timeline.Format(r.Start), timeline.Format(r.Stop),
			r.DataMilli/1000, r.DataMilli%1000)
	}
	if out == "" {
		out = faintStyle.Render("no imaging intervals") + "\n"
	}
	return out
}

func (m *Model) resize() {
	body := m.height - 6
	if body < 3 {
		body = 3
	}
	m.table.SetHeight(body)
	m.vp.Width = m.width - 2
	m.vp.Height = body
	m.vp.SetContent(m.imagingContent())
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.showImaging = !m.showImaging
		case "left":
			if m.facIdx > 0 {
				m.facIdx--
				m.table.SetRows(m.downlinkRows())
			}
		case "right":
			if m.facIdx < len(m.facilities)-1 {
				m.facIdx++
				m.table.SetRows(m.downlinkRows())
			}
		}
	}
	var cmd tea.Cmd
	if m.showImaging {
		m.vp, cmd = m.vp.Update(msg)
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var totalMilli int64
	count := 0
	for _, d := range m.downlinks {
		if m.facIdx > 0 && d.Facility != m.facilities[m.facIdx] {
			continue
		}
		totalMilli += d.DataMilli
		count++
	}
	pane := "downlinks"
	if m.showImaging {
		pane = "imaging"
	}
	header := headerStyle.Render(fmt.Sprintf("satsched · %s · %s", m.facilities[m.facIdx], pane)) +
		"  " + totalStyle.Render(fmt.Sprintf("%d passes, %d.%03d MiB", count, totalMilli/1000, totalMilli%1000))

	var body string
	if m.showImaging {
		body = borderStyle.Render(m.vp.View())
	} else {
		body = borderStyle.Render(m.table.View())
	}
	footer := faintStyle.Render(wordwrap.String(helpText, max(20, m.width-2)))
	return header + "\n" + body + "\n" + footer
}

// Run starts the browser and blocks until the user quits.
func Run(downlinks []report.DownlinkRow, imagings []report.ImagingRow) error {
	_, err := tea.NewProgram(New(downlinks, imagings), tea.WithAltScreen()).Run()
	return err
}
