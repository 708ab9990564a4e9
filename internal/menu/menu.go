package menu

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Action identifies one optimizer operation selectable from the menu.
type Action int

const (
	ActionRemovePackage Action = iota
	ActionCleanPackageCache
	ActionUninstallUnusedApps
	ActionRemoveOldKernels
	ActionCleanUpLogFiles
)

// actionLabels are shown in menu order.
var actionLabels = []string{
	"Remove packages",
	"Clean package cache",
	"Uninstall unused applications",
	"Remove old kernel versions",
	"Clean up log files",
}

// Label returns the menu label for an action.
func (a Action) Label() string {
	if int(a) < 0 || int(a) >= len(actionLabels) {
		return "unknown"
	}
	return actionLabels[a]
}

// ─── Key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run selected")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ─── Styles ──────────────────────────────────────────────────────────────────

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	systemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// ─── Model ───────────────────────────────────────────────────────────────────

// Model is the bubbletea model for the main action menu. It only
// gathers a selection; the chosen actions run after the program exits,
// so all confirmation prompts stay on the plain synchronous terminal.
type Model struct {
	system   string
	cursor   int
	selected map[Action]bool
	aborted  bool
	done     bool
}

// NewModel creates the menu model. system is the descriptive line
// shown under the title.
func NewModel(system string) Model {
	return Model{
		system:   system,
		selected: make(map[Action]bool),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(actionLabels)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Toggle):
		action := Action(m.cursor)
		m.selected[action] = !m.selected[action]
	case key.Matches(keyMsg, keys.Confirm):
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	if m.done || m.aborted {
		return ""
	}

	s := titleStyle.Render("LinMole — free up disk space") + "\n"
	s += systemStyle.Render(m.system) + "\n\n"

	for i, label := range actionLabels {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		box := "[ ]"
		line := fmt.Sprintf("%s %s", box, label)
		if m.selected[Action(i)] {
			line = selectedStyle.Render(fmt.Sprintf("[x] %s", label))
		}
		s += cursor + line + "\n"
	}

	s += "\n" + helpStyle.Render("↑/↓ move · space toggle · enter run · q quit") + "\n"
	return s
}

// Aborted reports whether the user quit without confirming.
func (m Model) Aborted() bool {
	return m.aborted
}

// Selections returns the chosen actions in menu order.
func (m Model) Selections() []Action {
	var actions []Action
	for i := range actionLabels {
		if m.selected[Action(i)] {
			actions = append(actions, Action(i))
		}
	}
	return actions
}

// Run shows the menu full-screen and returns the confirmed selection.
// A quit without confirmation returns an empty selection.
func Run(system string) ([]Action, error) {
	p := tea.NewProgram(NewModel(system))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("menu: %w", err)
	}
	m, ok := final.(Model)
	if !ok || m.Aborted() {
		return nil, nil
	}
	return m.Selections(), nil
}
