// Package demo is the interactive toolbar shown by `flyout demo`: buttons
// with tooltips and dropdown menus running on the flyout engine.
package demo

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/flyout/pkg/flyout/dom"
	"github.com/marcus/flyout/pkg/flyout/menu"
	"github.com/marcus/flyout/pkg/flyout/placement"
	"github.com/marcus/flyout/pkg/flyout/portal"
	"github.com/marcus/flyout/pkg/flyout/presence"
	"github.com/marcus/flyout/pkg/flyout/tooltip"
)

const (
	toolbarX  = 2
	toolbarY  = 2
	buttonGap = 2
	tipWrap   = 40
	defaultW  = 80
	defaultH  = 24
)

const helpMarkdown = "**flyout demo**\n\n" +
	"- `tab` moves between buttons\n" +
	"- `enter` or `↓` opens a menu\n" +
	"- type to jump to an item\n" +
	"- `esc` closes\n"

// Options configures the demo widgets.
type Options struct {
	Tooltip tooltip.Options
	Menu    menu.Options
	Logger  *slog.Logger
}

// KeyMap holds the demo's own keys.
type KeyMap struct {
	Quit     key.Binding
	Next     key.Binding
	Previous key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Previous: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous")),
	}
}

// selectedMsg reports a chosen menu item.
type selectedMsg struct {
	menu string
	item string
}

type button struct {
	el   *dom.Element
	text string
}

// Model is the demo's bubbletea model.
type Model struct {
	doc    *dom.Document
	layer  *portal.Layer
	places *placement.Service
	keys   KeyMap
	help   help.Model
	log    *slog.Logger

	buttons   []*button
	focusIdx  int
	tips      []*tooltip.Tooltip
	menus     []*menu.Menu
	presences []*presence.Presence
	teardowns []func()

	width, height int
	status        string
}

// New builds the toolbar.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	m := &Model{
		doc:      dom.NewDocument(dom.WithLogger(opts.Logger)),
		places:   placement.NewService(defaultW, defaultH, placement.WithLogger(opts.Logger)),
		keys:     defaultKeyMap(),
		help:     help.New(),
		log:      opts.Logger,
		focusIdx: -1,
		width:    defaultW,
		height:   defaultH,
		status:   "nothing selected yet",
	}
	m.layer = portal.New(m.doc)

	save := m.addButton("Save")
	edit := m.addButton("Edit ▾")
	view := m.addButton("View ▾")
	helpBtn := m.addButton("Help")
	m.layout()

	m.addTooltip(save, "Write the buffer to disk", opts)
	m.addTooltip(helpBtn, m.renderMarkdown(helpMarkdown), opts)
	m.addMenu(edit, "Edit", opts, []itemSpec{
		{"Undo", true}, {"Cut", false}, {"Copy", false}, {"Paste", false}, {"Delete", true},
	})
	m.addMenu(view, "View", opts, []itemSpec{
		{"Zoom in", false}, {"Zoom out", false}, {"Reset zoom", false}, {"Full screen", true},
	})

	m.teardowns = append(m.teardowns, m.doc.OnDocument(dom.KeyDown, m.moveFocus))
	return m
}

type itemSpec struct {
	label    string
	disabled bool
}

func (m *Model) addButton(text string) *dom.Element {
	el := dom.NewElement("button", text)
	b := &button{el: el, text: text}
	idx := len(m.buttons)
	m.buttons = append(m.buttons, b)
	m.doc.Mount(el)
	m.teardowns = append(m.teardowns, m.doc.On(el, dom.Focus, func(*dom.Event) tea.Cmd {
		m.focusIdx = idx
		return nil
	}))
	return el
}

func (m *Model) addTooltip(trigger *dom.Element, body string, opts Options) {
	tip := tooltip.New(m.doc, m.places, opts.Tooltip)
	m.tips = append(m.tips, tip)
	m.teardowns = append(m.teardowns, tip.AttachTrigger(trigger))
	m.presences = append(m.presences, presence.New(tip.Open(), func() func() {
		el := tooltip.NewOverlay(body)
		unmount := m.layer.Mount(el, nil, tooltip.Render)
		detach := tip.AttachOverlay(el)
		return func() {
			detach()
			unmount()
		}
	}))
}

func (m *Model) addMenu(trigger *dom.Element, name string, opts Options, items []itemSpec) {
	mo := opts.Menu
	mo.OnSelect = func(item *dom.Element) tea.Cmd {
		label := item.Label
		return func() tea.Msg { return selectedMsg{menu: name, item: label} }
	}
	mn := menu.New(m.doc, m.places, mo)
	m.menus = append(m.menus, mn)

	overlay := dom.NewElement("menu", name)
	for _, it := range items {
		overlay.Append(menu.NewItem(it.label, it.disabled))
	}
	m.teardowns = append(m.teardowns, mn.AttachTrigger(trigger))
	m.presences = append(m.presences, presence.New(mn.Open(), func() func() {
		overlay.Rect.W, overlay.Rect.H = menu.SizeOf(overlay)
		unmount := m.layer.Mount(overlay, nil, mn.View)
		detach := mn.AttachOverlay(overlay)
		return func() {
			detach()
			unmount()
		}
	}))
}

func (m *Model) renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(tipWrap),
	)
	if err != nil {
		m.log.Warn("markdown renderer", "err", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		m.log.Warn("render markdown", "err", err)
		return md
	}
	return strings.Trim(out, "\n")
}

// layout assigns button rectangles along the toolbar row.
func (m *Model) layout() {
	x := toolbarX
	for _, b := range m.buttons {
		w := lipgloss.Width(buttonStyle.Render(b.text))
		b.el.Rect.X, b.el.Rect.Y, b.el.Rect.W, b.el.Rect.H = x, toolbarY, w, 1
		x += w + buttonGap
	}
}

// moveFocus is the default action for tab keys nothing else handled.
func (m *Model) moveFocus(ev *dom.Event) tea.Cmd {
	if ev.DefaultPrevented() || len(m.buttons) == 0 {
		return nil
	}
	n := len(m.buttons)
	switch {
	case key.Matches(ev.Key, m.keys.Next):
		return m.doc.Focus(m.buttons[(m.focusIdx+1)%n].el)
	case key.Matches(ev.Key, m.keys.Previous):
		idx := m.focusIdx - 1
		if idx < 0 {
			idx = n - 1
		}
		return m.doc.Focus(m.buttons[idx].el)
	}
	return nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.places.Resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && m.canQuit(msg) {
			m.Close()
			return m, tea.Quit
		}
	case selectedMsg:
		m.status = fmt.Sprintf("%s → %s", msg.menu, msg.item)
		m.log.Info("menu selection", "menu", msg.menu, "item", msg.item)
		return m, nil
	}

	cmds := []tea.Cmd{m.doc.Update(msg)}
	for _, tip := range m.tips {
		cmds = append(cmds, tip.Update(msg))
	}
	for _, mn := range m.menus {
		cmds = append(cmds, mn.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

// canQuit keeps "q" available for typeahead while a menu has focus.
func (m *Model) canQuit(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyCtrlC {
		return true
	}
	for _, mn := range m.menus {
		if mn.IsOpen() {
			return false
		}
	}
	return true
}

// Close destroys every widget.
func (m *Model) Close() {
	for _, p := range m.presences {
		p.Destroy()
	}
	for _, tip := range m.tips {
		tip.Destroy()
	}
	for _, mn := range m.menus {
		mn.Destroy()
	}
	for _, fn := range m.teardowns {
		fn()
	}
	m.presences, m.tips, m.menus, m.teardowns = nil, nil, nil, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]string, m.height)
	if m.height > 0 {
		lines[0] = titleStyle.Render(" flyout ") + mutedText.Render("overlay engine demo")
	}
	if toolbarY < m.height {
		lines[toolbarY] = m.toolbar()
	}
	if m.height >= 2 {
		lines[m.height-2] = mutedText.Render(" " + m.status)
		lines[m.height-1] = " " + m.help.ShortHelpView([]key.Binding{
			m.keys.Next, m.keys.Previous, m.keys.Quit,
		})
	}

	return m.layer.Composite(strings.Join(lines, "\n"), m.width, m.height)
}

func (m *Model) toolbar() string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", toolbarX))
	focused, hovered := m.doc.Focused(), m.doc.Hovered()
	for i, b := range m.buttons {
		if i > 0 {
			sb.WriteString(strings.Repeat(" ", buttonGap))
		}
		style := buttonStyle
		switch {
		case b.el == focused:
			style = buttonFocused
		case b.el.Contains(hovered):
			style = buttonHover
		}
		sb.WriteString(style.Render(b.text))
	}
	return sb.String()
}
