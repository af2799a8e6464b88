package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"media-sweep/internal/analytics"
	"media-sweep/internal/asset"
	"media-sweep/internal/cleaner"
	"media-sweep/internal/entitlement"
	"media-sweep/internal/library"
	"media-sweep/internal/preview"
	"media-sweep/internal/selection"
	"media-sweep/pkg/format"
)

type status int

const (
	statusCategories status = iota
	statusLoading
	statusPermission
	statusReady
	statusPaywall
	statusConfirm
	statusDeleting
	statusNotice
	statusDone
)

type model struct {
	sess *preview.Session
	gate *entitlement.Gate
	flow *cleaner.Flow
	sink analytics.Sink

	sp spinner.Model
	st status

	categories []asset.Category
	catCursor  int

	category asset.Category
	load     *preview.Load

	// list view (custom rendering, not using bubbles/list)
	cursor       int
	scrollOffset int

	loadCancel context.CancelFunc
	loadGen    int

	notice       string
	noticeReturn status
	result       cleaner.Result

	// terminal size
	termW int
	termH int
}

// messages
type loadDoneMsg struct {
	gen  int
	load *preview.Load
	err  error
}
type deleteDoneMsg struct {
	res cleaner.Result
	err error
}
type purchaseDoneMsg struct {
	ok  bool
	err error
}

func newModel(sess *preview.Session, gate *entitlement.Gate, flow *cleaner.Flow, sink analytics.Sink) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return model{
		sess:       sess,
		gate:       gate,
		flow:       flow,
		sink:       sink,
		sp:         sp,
		st:         statusCategories,
		categories: asset.Categories(),
	}
}

// public entry
func Run(sess *preview.Session, gate *entitlement.Gate, flow *cleaner.Flow, sink analytics.Sink) error {
	m := newModel(sess, gate, flow, sink)
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	m.sink.Track(analytics.PageView{Page: "Results"})
	return m.sp.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case tea.WindowSizeMsg:
		m.termW, m.termH = msg.Width, msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	case loadDoneMsg:
		return m.handleLoadDone(msg)
	case deleteDoneMsg:
		return m.handleDeleteDone(msg)
	case purchaseDoneMsg:
		if msg.ok {
			m.st = statusReady
			return m, nil
		}
		m.notice = "Purchase did not complete. You can try again any time."
		m.noticeReturn = statusPaywall
		m.st = statusNotice
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" {
		if m.loadCancel != nil {
			m.loadCancel()
		}
		return m, tea.Quit
	}

	switch m.st {
	case statusCategories:
		switch key {
		case "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.catCursor > 0 {
				m.catCursor--
			}
		case "down", "j":
			if m.catCursor < len(m.categories)-1 {
				m.catCursor++
			}
		case "enter":
			return m.openCategory(m.categories[m.catCursor])
		}
		return m, nil

	case statusLoading:
		if key == "q" || key == "esc" {
			// abandon the load; a late result must not land on another screen
			if m.loadCancel != nil {
				m.loadCancel()
				m.loadCancel = nil
			}
			m.st = statusCategories
		}
		return m, nil

	case statusPermission, statusDone:
		if key == "q" {
			return m, tea.Quit
		}
		m.st = statusCategories
		return m, nil

	case statusNotice:
		if key == "q" {
			return m, tea.Quit
		}
		m.st = m.noticeReturn
		return m, nil

	case statusReady:
		return m.handleReadyKey(key)

	case statusPaywall:
		switch key {
		case "q":
			return m, tea.Quit
		case "b", "esc":
			m.st = statusReady
			return m, nil
		case "p":
			return m, m.purchaseCmd(false)
		case "r":
			return m, m.purchaseCmd(true)
		}
		return m, nil

	case statusConfirm:
		switch key {
		case "y":
			m.st = statusDeleting
			m.sp = spinner.New()
			m.sp.Spinner = spinner.Dot
			return m, tea.Batch(m.sp.Tick, m.deleteCmd())
		case "n", "esc", "q":
			m.flow.Cancel()
			m.st = statusReady
			return m, nil
		}
		return m, nil

	case statusDeleting:
		// the batch either finishes or fails; wait for its result
		return m, nil
	}
	return m, nil
}

func (m model) handleReadyKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "b", "esc":
		m.load = nil
		m.cursor = 0
		m.scrollOffset = 0
		m.st = statusCategories
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.adjustScroll()
		}
	case "down", "j":
		if m.cursor < m.load.List.Len()-1 {
			m.cursor++
			m.adjustScroll()
		}
	case " ":
		assets := m.load.List.Assets()
		if m.cursor >= 0 && m.cursor < len(assets) {
			if m.load.List.Toggle(assets[m.cursor].ID) == selection.OutcomePaywall {
				return m.showPaywall("toggle")
			}
		}
	case "a":
		if m.load.List.ToggleAll() == selection.OutcomePaywall {
			return m.showPaywall("select_all")
		}
	case "d", "enter":
		switch m.flow.RequestDelete(m.load.List, m.category) {
		case cleaner.RequestConfirm:
			m.st = statusConfirm
		case cleaner.RequestNothing:
			m.notice = "No files selected. Select files to delete first."
			m.noticeReturn = statusReady
			m.st = statusNotice
		case cleaner.RequestPaywall:
			m.sink.Track(analytics.PageView{Page: "Paywall"})
			m.st = statusPaywall
		}
	}
	return m, nil
}

func (m model) showPaywall(trigger string) (tea.Model, tea.Cmd) {
	m.sink.Track(analytics.PaywallShown{Trigger: trigger})
	m.sink.Track(analytics.PageView{Page: "Paywall"})
	m.st = statusPaywall
	return m, nil
}

func (m model) openCategory(c asset.Category) (tea.Model, tea.Cmd) {
	if !c.Enumerable() {
		m.notice = "Cache & junk is managed by the system and cannot be listed here.\nClear app caches from the device settings to reclaim this space."
		m.noticeReturn = statusCategories
		m.st = statusNotice
		return m, nil
	}
	m.category = c
	m.cursor = 0
	m.scrollOffset = 0
	m.st = statusLoading

	ctx, cancel := context.WithCancel(context.Background())
	m.loadCancel = cancel
	m.loadGen++
	gen := m.loadGen
	sess := m.sess
	return m, tea.Batch(m.sp.Tick, func() tea.Msg {
		load, err := sess.Load(ctx, c)
		return loadDoneMsg{gen: gen, load: load, err: err}
	})
}

func (m model) handleLoadDone(msg loadDoneMsg) (tea.Model, tea.Cmd) {
	if m.st != statusLoading || msg.gen != m.loadGen {
		// stale result from a dismissed or superseded load; a canceled
		// load can finish after the next one has already started
		return m, nil
	}
	m.loadCancel = nil
	if msg.err != nil {
		if errors.Is(msg.err, library.ErrPermissionDenied) {
			m.st = statusPermission
			return m, nil
		}
		if errors.Is(msg.err, context.Canceled) {
			m.st = statusCategories
			return m, nil
		}
		m.notice = fmt.Sprintf("Failed to load files: %v", msg.err)
		m.noticeReturn = statusCategories
		m.st = statusNotice
		return m, nil
	}
	m.load = msg.load
	m.st = statusReady
	return m, nil
}

func (m model) deleteCmd() tea.Cmd {
	flow := m.flow
	return func() tea.Msg {
		res, err := flow.Confirm(context.Background())
		return deleteDoneMsg{res: res, err: err}
	}
}

func (m model) purchaseCmd(restore bool) tea.Cmd {
	gate := m.gate
	return func() tea.Msg {
		var ok bool
		var err error
		if restore {
			ok, err = gate.Restore(context.Background())
		} else {
			ok, err = gate.Purchase(context.Background())
		}
		return purchaseDoneMsg{ok: ok, err: err}
	}
}

func (m model) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	m.flow.Ack()
	if msg.err != nil {
		m.notice = "Some files could not be deleted. They stay selected so you can retry."
		m.noticeReturn = statusReady
		m.st = statusNotice
		return m, nil
	}
	m.result = msg.res
	m.sink.Track(analytics.PageView{Page: "Success"})
	if m.load != nil && m.cursor >= m.load.List.Len() && m.load.List.Len() > 0 {
		m.cursor = m.load.List.Len() - 1
	}
	m.st = statusDone
	return m, nil
}

func (m model) View() string {
	switch m.st {
	case statusCategories:
		return m.viewCategories()
	case statusLoading:
		return fmt.Sprintf("%s Scanning %s...\nPress esc to go back.\n", m.sp.View(), m.category.Title())
	case statusPermission:
		return "Media access was denied.\nEnable media permissions in your device settings to scan your files.\nPress any key to go back, q to quit.\n"
	case statusReady:
		return m.viewReady()
	case statusPaywall:
		return m.viewPaywall()
	case statusConfirm:
		return fmt.Sprintf("Delete %d file(s), freeing ~%s? This cannot be undone. (y/N)\n",
			m.flow.PendingCount(), format.Size(m.flow.PendingSize()))
	case statusDeleting:
		return fmt.Sprintf("%s Deleting selected files...\n", m.sp.View())
	case statusDone:
		return fmt.Sprintf("%s\n%d files deleted, %s freed.\nPress any key to continue, q to quit.\n",
			successStyle.Render("Success!"), m.result.FilesDeleted, format.Size(m.result.SpaceFreed))
	case statusNotice:
		return m.notice + "\nPress any key to continue, q to quit.\n"
	default:
		return ""
	}
}

func (m model) viewCategories() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("media-sweep") + "  reclaim storage space\n")
	if !m.gate.Allowed() {
		b.WriteString(lockStyle.Render("free tier: selecting and deleting files requires Premium") + "\n")
	}
	b.WriteString("\n")
	for i, c := range m.categories {
		prefix := "  "
		if i == m.catCursor {
			prefix = cursorStyle.Render(">") + " "
		}
		title := c.Title()
		if !c.Enumerable() {
			title += dimStyle.Render("  (info only)")
		}
		b.WriteString(prefix + title + "\n")
	}
	b.WriteString("\nKeys: ↑↓ move, enter open, q quit\n")
	return b.String()
}

func (m model) viewReady() string {
	list := m.load.List
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.category.Title()))
	b.WriteString(fmt.Sprintf("  Found: %d", list.Len()))
	if n := list.SelectedCount(); n > 0 {
		b.WriteString(fmt.Sprintf("  Selected: %d (%s)", n, format.Size(list.SelectedSize())))
	}
	if !m.gate.Allowed() {
		b.WriteString("  " + lockStyle.Render("[locked]"))
	}
	b.WriteString("\n\n")

	if m.load.AllClean() {
		b.WriteString(successStyle.Render("All Clean!") + "\nNo files found in this category.\n")
		b.WriteString("\nKeys: b back, q quit\n")
		return b.String()
	}

	visible := m.visibleRows()
	start := m.scrollOffset
	end := start + visible
	if end > list.Len() {
		end = list.Len()
	}
	assets := list.Assets()
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(assets[i], i == m.cursor) + "\n")
	}

	b.WriteString("\nKeys: ↑↓ move, space select, a select all, d/enter delete, b back, q quit\n")
	return b.String()
}

func (m model) renderRow(a asset.MediaAsset, current bool) string {
	var prefix string
	if current {
		prefix = cursorStyle.Render(">") + " "
	} else {
		prefix = "  "
	}

	var mark string
	if a.Selected {
		mark = markSelectedStyle.Render("[x]")
	} else {
		mark = markStyle.Render("[ ]")
	}

	sizeStr := sizeColorStyle(a.SizeOrZero()).Render(format.SizeCompact(a.SizeOrZero()))

	name := a.Filename
	if a.Selected {
		name = nameSelectedStyle.Render(name)
	}

	line := prefix + mark + " " + sizeStr + " " + name
	if a.MediaType == asset.MediaTypeVideo && a.Duration > 0 {
		line += dimStyle.Render(" " + format.Duration(a.Duration))
	}
	if a.GroupKey != "" {
		line += dimStyle.Render(" ⧉")
	}
	return line
}

func (m model) viewPaywall() string {
	lines := []string{
		headerStyle.Render("Unlock Premium"),
		"",
		"Selecting and deleting files requires a Premium subscription.",
		"",
		"  p  purchase",
		"  r  restore purchases",
		"  b  not now",
	}
	return lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder()).Render(strings.Join(lines, "\n")) + "\n"
}

func (m model) visibleRows() int {
	rows := m.termH - 5
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m *model) adjustScroll() {
	visible := m.visibleRows()

	// Scroll down if cursor is below visible area
	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}

	// Scroll up if cursor is above visible area
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
}

var (
	cursorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))            // purple
	markStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))           // gray
	markSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true) // green
	nameSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))            // green
	headerStyle       = lipgloss.NewStyle().Bold(true)
	successStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	lockStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))           // amber
	dimStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))           // dark gray
)

// Choose color for size: red > orange > yellow > green > gray
func sizeColorStyle(b int64) lipgloss.Style {
	const MB = 1024 * 1024
	switch {
	case b >= 1024*MB:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // red
	case b >= 512*MB:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // orange
	case b >= 100*MB:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("226")) // yellow
	case b >= 10*MB:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("46")) // green
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("250")) // light gray
	}
}
