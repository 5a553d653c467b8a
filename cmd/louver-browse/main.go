// Command louver-browse is an interactive viewer over a large set of
// synthetic log records. Records collapse to one or two terminal lines and
// expand in place to show their attached fields, so row heights vary and
// change at runtime; the louver window keeps per-keystroke work proportional
// to the viewport regardless of how many records exist.
//
//	louver-browse -rows 200000
//
// Keys: arrows move the cursor, enter expands or collapses the cursor row,
// ':' opens a jump-to-row prompt, pgup/pgdn/home/end and the mouse wheel
// scroll freely, q quits.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/kungfusheep/louver"
)

// chromeLines is the vertical space reserved below the list: one status bar
// and one footer (help text or the jump prompt).
const chromeLines = 2

const wheelLines = 3

var (
	colInfo  = lipgloss.Color("#06B6D4")
	colWarn  = lipgloss.Color("#F59E0B")
	colError = lipgloss.Color("#EF4444")
	colMuted = lipgloss.Color("#6B7280")
	colComp  = lipgloss.Color("#7C3AED")

	styleTime   = lipgloss.NewStyle().Foreground(colMuted)
	styleComp   = lipgloss.NewStyle().Foreground(colComp)
	styleDetail = lipgloss.NewStyle().Foreground(colMuted)
	styleCursor = lipgloss.NewStyle().Foreground(colInfo).Bold(true)
	styleStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB")).Background(lipgloss.Color("#1F2937"))
	styleKey    = lipgloss.NewStyle().Foreground(colInfo).Bold(true)
	styleHint   = lipgloss.NewStyle().Foreground(colMuted)
	styleNotice = lipgloss.NewStyle().Foreground(colWarn)
	styleThumb  = lipgloss.NewStyle().Foreground(colInfo)
	styleTrack  = lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))

	levelStyles = map[string]lipgloss.Style{
		"DEBUG": lipgloss.NewStyle().Foreground(colMuted),
		"INFO":  lipgloss.NewStyle().Foreground(colInfo),
		"WARN":  lipgloss.NewStyle().Foreground(colWarn),
		"ERROR": lipgloss.NewStyle().Foreground(colError).Bold(true),
	}
)

// detailIndent aligns trace and field lines under the component column.
var detailIndent = strings.Repeat(" ", 21)

type record struct {
	when    time.Time
	level   string
	comp    string
	text    string
	trace   string   // second collapsed line, errors only
	details []string // extra lines shown while expanded
}

var components = []string{"ingest", "planner", "compactor", "gateway", "raft", "wal", "scheduler"}

var traceFiles = []string{"transport", "apply", "segment", "iterator", "lease", "snapshot"}

var messageTemplates = []string{
	"accepted connection from 10.0.4.%d",
	"flushed %d entries to the write-ahead log",
	"compaction pass finished, %d segments merged",
	"leader heartbeat round trip %dms",
	"rebalanced %d shards onto cold replicas",
	"reclaimed %dMB from the block cache",
	"request budget exhausted after %d retries",
	"checkpoint advanced to sequence %d",
	"applied membership change at index %d",
	"slow fsync took %dms",
}

func makeRecords(n int) []record {
	rng := rand.New(rand.NewSource(1))
	recs := make([]record, n)
	when := time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
	for i := range recs {
		when = when.Add(time.Duration(5+rng.Intn(900)) * time.Millisecond)
		r := record{when: when, comp: components[rng.Intn(len(components))]}
		switch p := rng.Intn(100); {
		case p < 55:
			r.level = "INFO"
		case p < 78:
			r.level = "DEBUG"
		case p < 92:
			r.level = "WARN"
		default:
			r.level = "ERROR"
		}
		r.text = fmt.Sprintf(messageTemplates[rng.Intn(len(messageTemplates))], rng.Intn(4096))
		if r.level == "ERROR" {
			r.trace = fmt.Sprintf("at %s/%s.go:%d", r.comp, traceFiles[rng.Intn(len(traceFiles))], 40+rng.Intn(800))
		}
		extras := []string{
			fmt.Sprintf("latency   %dms", rng.Intn(2400)),
			fmt.Sprintf("attempt   %d", 1+rng.Intn(5)),
			fmt.Sprintf("shard     %d", rng.Intn(64)),
			fmt.Sprintf("peer      10.0.%d.%d", rng.Intn(8), 2+rng.Intn(250)),
		}
		r.details = []string{
			fmt.Sprintf("trace_id  %016x", rng.Uint64()),
			fmt.Sprintf("span_id   %08x", rng.Uint32()),
		}
		for nd := 2 + rng.Intn(4); len(r.details) < nd; {
			r.details = append(r.details, extras[len(r.details)-2])
		}
		recs[i] = r
	}
	return recs
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Expand   key.Binding
	Jump     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "cursor up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "cursor down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "f", " "), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first row")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last row")),
		Expand:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
		Jump:     key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "jump")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type model struct {
	list     *louver.List
	records  []record
	expanded map[int]bool
	keys     keyMap
	prompt   textinput.Model
	jumping  bool
	notice   string
	cursor   int
	width    int
	height   int
}

func newModel(recs []record, buffer int) model {
	m := model{
		records:  recs,
		expanded: make(map[int]bool),
		keys:     defaultKeyMap(),
		width:    80,
		height:   24,
	}

	ti := textinput.New()
	ti.Prompt = ": "
	ti.PromptStyle = styleKey
	ti.Placeholder = "row number"
	ti.CharLimit = 9
	ti.Width = 16
	m.prompt = ti

	expanded := m.expanded
	m.list = louver.NewList(louver.Config{
		RowCount:       len(recs),
		BufferRows:     buffer,
		ViewportHeight: float64(m.height - chromeLines),
		RowHeight: func(i int) float64 {
			if recs[i].trace != "" {
				return 2
			}
			return 1
		},
		SubRowHeight: func(i int) float64 {
			if expanded[i] {
				return float64(len(recs[i].details))
			}
			return 0
		},
		DefaultRowHeight: 1,
	})
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = v.Width, v.Height
		cfg := m.list.Config()
		cfg.ViewportHeight = float64(max(v.Height-chromeLines, 1))
		m.list.SetConfig(cfg)
		return m, nil
	case tea.MouseMsg:
		switch v.Button {
		case tea.MouseButtonWheelUp:
			m.list.ScrollBy(-wheelLines)
		case tea.MouseButtonWheelDown:
			m.list.ScrollBy(wheelLines)
		}
		return m.clampCursor(), nil
	case tea.KeyMsg:
		m.notice = ""
		if m.jumping {
			return m.handlePromptKey(v)
		}
		return m.handleKey(v)
	}
	return m, nil
}

func (m model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(k, m.keys.Up):
		return m.moveCursor(-1), nil
	case key.Matches(k, m.keys.Down):
		return m.moveCursor(1), nil
	case key.Matches(k, m.keys.PageUp):
		m.list.ScrollBy(-m.pageStep())
		return m.clampCursor(), nil
	case key.Matches(k, m.keys.PageDown):
		m.list.ScrollBy(m.pageStep())
		return m.clampCursor(), nil
	case key.Matches(k, m.keys.Top):
		m.cursor = 0
		m.list.ScrollToRow(0)
		return m, nil
	case key.Matches(k, m.keys.Bottom):
		m.cursor = len(m.records) - 1
		m.list.ScrollToRowBottom(m.cursor)
		return m, nil
	case key.Matches(k, m.keys.Expand):
		m.expanded[m.cursor] = !m.expanded[m.cursor]
		m.list.Invalidate(m.cursor).EnsureVisible(m.cursor)
		return m, nil
	case key.Matches(k, m.keys.Jump):
		m.jumping = true
		m.prompt.Reset()
		return m, m.prompt.Focus()
	}
	return m, nil
}

func (m model) handlePromptKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "esc":
		m.jumping = false
		m.prompt.Blur()
		return m, nil
	case "enter":
		m.jumping = false
		m.prompt.Blur()
		n, err := strconv.Atoi(strings.TrimSpace(m.prompt.Value()))
		if err != nil || n < 1 || n > len(m.records) {
			m.notice = fmt.Sprintf("no row %q (have 1..%d)", m.prompt.Value(), len(m.records))
			return m, nil
		}
		m.cursor = n - 1
		m.list.EnsureVisible(m.cursor)
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(k)
	return m, cmd
}

func (m model) moveCursor(d int) model {
	m.cursor += d
	if m.cursor < 0 {
		m.cursor = 0
	}
	if n := len(m.records); m.cursor >= n {
		m.cursor = n - 1
	}
	m.list.EnsureVisible(m.cursor)
	return m
}

// clampCursor pulls the cursor back inside the visible range after a free
// scroll so the next expand or ensure-visible acts on a row the user can see.
func (m model) clampCursor() model {
	win := m.list.Window()
	if len(win.Rows) == 0 {
		m.cursor = 0
		return m
	}
	last := win.FirstRow
	bottom := win.ScrollY + m.list.Config().ViewportHeight
	for _, r := range win.Rows {
		if r > last && win.Offsets[r] < bottom {
			last = r
		}
	}
	if m.cursor < win.FirstRow {
		m.cursor = win.FirstRow
	}
	if m.cursor > last {
		m.cursor = last
	}
	return m
}

func (m model) pageStep() float64 {
	return float64(max(m.height-chromeLines-1, 1))
}

func (m model) View() string {
	viewport := m.height - chromeLines
	if viewport < 1 || m.width < 40 {
		return "window too small"
	}
	win := m.list.Window()

	content := make([]string, 0, viewport+16)
	if len(win.Rows) > 0 {
		skip := int(win.ScrollY - win.Offsets[win.Rows[0]])
		for _, row := range win.Rows {
			content = append(content, m.renderRow(row)...)
		}
		if skip >= len(content) {
			content = content[:0]
		} else if skip > 0 {
			content = content[skip:]
		}
	}
	if len(content) > viewport {
		content = content[:viewport]
	}
	for len(content) < viewport {
		content = append(content, "")
	}

	start, size := win.Scrollbar(viewport)
	var b strings.Builder
	for i, line := range content {
		b.WriteString(line)
		if pad := m.width - 1 - lipgloss.Width(line); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		if i >= start && i < start+size {
			b.WriteString(styleThumb.Render("┃"))
		} else {
			b.WriteString(styleTrack.Render("│"))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.statusLine(win))
	b.WriteByte('\n')
	b.WriteString(m.footerLine())
	return b.String()
}

// renderRow emits exactly as many terminal lines as the row's measured
// height, so slicing the assembled buffer by scroll position stays aligned.
func (m model) renderRow(i int) []string {
	rec := m.records[i]
	textw := m.width - 1 - 32

	gutter := "  "
	if i == m.cursor {
		gutter = styleCursor.Render("▌") + " "
	}
	lines := []string{
		gutter +
			styleTime.Render(rec.when.Format("15:04:05.000")) + " " +
			levelStyles[rec.level].Render(fmt.Sprintf("%-5s", rec.level)) + " " +
			styleComp.Render(fmt.Sprintf("%-9.9s", rec.comp)) + "  " +
			runewidth.Truncate(rec.text, textw, "…"),
	}
	if rec.trace != "" {
		lines = append(lines, detailIndent+styleDetail.Render(runewidth.Truncate("└ "+rec.trace, textw+11, "…")))
	}
	if m.expanded[i] {
		for _, d := range rec.details {
			lines = append(lines, detailIndent+styleDetail.Render(runewidth.Truncate(d, textw+11, "…")))
		}
	}
	return lines
}

func (m model) statusLine(win louver.Window) string {
	slot := "-"
	if s, ok := win.Slot(m.cursor); ok {
		slot = strconv.Itoa(s)
	}
	span := "[-]"
	if len(win.Rows) > 0 {
		span = fmt.Sprintf("[%d..%d]", win.Rows[0], win.Rows[len(win.Rows)-1])
	}
	left := fmt.Sprintf(" %d/%d  scroll %.0f/%.0f  window %s  slot %s",
		m.cursor+1, len(m.records), win.ScrollY, win.MaxScrollY, span, slot)
	right := fmt.Sprintf("%.0f lines ", win.ContentHeight)
	gap := m.width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	return styleStatus.Render(left + strings.Repeat(" ", gap) + right)
}

func (m model) footerLine() string {
	if m.jumping {
		return " " + m.prompt.View()
	}
	if m.notice != "" {
		return styleNotice.Render(" " + m.notice)
	}
	bindings := []key.Binding{m.keys.Jump, m.keys.Expand, m.keys.PageDown, m.keys.Bottom, m.keys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styleKey.Render(h.Key)+" "+styleHint.Render(h.Desc))
	}
	return " " + strings.Join(parts, "   ")
}

func main() {
	rows := flag.Int("rows", 200000, "number of synthetic log records")
	buffer := flag.Int("buffer", 4, "rows kept rendered beyond each edge of the viewport")
	flag.Parse()

	if *rows < 1 {
		fmt.Fprintln(os.Stderr, "louver-browse: -rows must be positive")
		os.Exit(1)
	}

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
	if _, err := tea.NewProgram(newModel(makeRecords(*rows), *buffer), opts...).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "louver-browse:", err)
		os.Exit(1)
	}
}
