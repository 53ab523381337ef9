/*
Copyright © 2026 shinnku-nikaidou
*/
package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/data"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/playthrough"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))
)

// verbs start every instruction line.
var verbs = []string{"place ", "upgrade ", "retarget ", "special ", "sell ", "remove obstacle at ", "round ", "speed ", "save", "exit"}

// unitVerbs take the name of a placed unit.
var unitVerbs = []string{"upgrade", "retarget", "special", "sell"}

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

type composeModel struct {
	builder     *playthrough.Builder
	towers      data.Towers
	outDir      string
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	width       int
	height      int
	showList    bool
	saved       string
}

func newComposeModel(b *playthrough.Builder, towers data.Towers, outDir string) composeModel {
	ti := textinput.New()
	ti.Placeholder = "Enter instruction (e.g., place dart d0 at 100, 200)..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	welcome := "Type instructions one per line. 'save' writes the playthrough, 'exit' leaves."
	vp := viewport.New(0, 0)
	vp.SetContent(welcome)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7)
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false)
	sugList.SetShowHelp(false)

	return composeModel{
		builder:     b,
		towers:      towers,
		outDir:      outDir,
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		historyIdx:  -1,
		logContent:  welcome,
	}
}

func (m *composeModel) Init() tea.Cmd {
	return textinput.Blink
}

// completions lists full-line suggestions for the current input.
func (m *composeModel) completions(val string) []string {
	var out []string
	lower := strings.ToLower(val)
	fields := strings.Fields(lower)

	if len(fields) <= 1 && !strings.HasSuffix(lower, " ") {
		for _, v := range verbs {
			if strings.HasPrefix(v, lower) && len(lower) < len(v) {
				out = append(out, v)
			}
		}
		return out
	}

	prefix := ""
	if !strings.HasSuffix(lower, " ") {
		prefix = fields[len(fields)-1]
	}
	base := val[:len(val)-len(prefix)]
	if len(fields) > 2 || (len(fields) == 2 && prefix == "") {
		return nil
	}

	var candidates []string
	switch verb := fields[0]; {
	case verb == "place":
		for kind := range m.towers.Monkeys {
			candidates = append(candidates, kind)
		}
		for hero := range m.towers.Heroes {
			candidates = append(candidates, hero)
		}
	case slices.Contains(unitVerbs, verb):
		for _, u := range m.builder.Script().Units {
			if !u.Sold {
				candidates = append(candidates, u.Name)
			}
		}
	}
	slices.Sort(candidates)
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), prefix) {
			out = append(out, base+c+" ")
		}
	}
	return out
}

func (m *composeModel) updateSuggestions() {
	var items []list.Item
	if val := m.textInput.Value(); val != "" {
		for _, c := range m.completions(val) {
			items = append(items, suggestion(c))
		}
	}

	m.suggestions.SetItems(items)
	m.showList = len(items) > 0
	if m.showList {
		h := min(len(items), 10)
		if h < 4 {
			h = 4
		}
		m.suggestions.SetHeight(h)
		m.suggestions.ResetSelected()
	}
}

// submit feeds one line to the builder and logs the outcome.
func (m *composeModel) submit(val string) {
	m.logContent += fmt.Sprintf("\n\n> %s\n", val)

	if val == "save" {
		path, err := playthrough.Save(m.outDir, m.builder.Script())
		if err != nil {
			m.logContent += fmt.Sprintf("Error: %v", err)
			return
		}
		m.saved = path
		m.logContent += "Saved " + path
		return
	}

	actions, diag := m.builder.Feed(val)
	if diag != nil {
		m.logContent += "Skipped: " + diag.Reason
		return
	}
	for _, a := range actions {
		m.logContent += fmt.Sprintf("%s (%d)\n", a.String(), a.Cost())
	}
}

func (m *composeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		lsCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyUp:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.history) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.history[m.historyIdx])
				m.updateSuggestions()
			}

		case tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 && m.historyIdx != -1 {
				if m.historyIdx < len(m.history)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.history[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.updateSuggestions()
			}

		case tea.KeyTab:
			if m.showList {
				if i, ok := m.suggestions.SelectedItem().(suggestion); ok {
					m.textInput.SetValue(string(i))
					m.textInput.SetCursor(len(string(i)))
					m.updateSuggestions()
				}
			}

		case tea.KeyEnter:
			val := strings.TrimSpace(m.textInput.Value())
			if val == "exit" || val == "quit" {
				return m, tea.Quit
			}

			if val != "" {
				if len(m.history) == 0 || m.history[len(m.history)-1] != val {
					m.history = append(m.history, val)
				}
				m.historyIdx = -1
				m.textInput.SetValue("")
				m.updateSuggestions()

				m.submit(val)
				m.viewport.SetContent(m.logContent)
				m.viewport.GotoBottom()
			}
		default:
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	titleH := lipgloss.Height(titleStyle.Render("Dummy"))
	stateH := lipgloss.Height(m.renderState())
	listH := 0
	if m.showList {
		listH = m.suggestions.Height() + 2
	}
	infoH := lipgloss.Height(infoStyle.Render("Dummy"))

	m.viewport.Height = max(m.height-(titleH+stateH+1+listH+infoH+11), 4)

	return m, tea.Batch(tiCmd, vpCmd, lsCmd)
}

func (m *composeModel) renderState() string {
	s := m.builder.Script()
	view := fmt.Sprintf("=== %s / %s ===\n\nCost so far: %d\n", s.Map, s.Gamemode, s.Cost())
	if s.Hero != "" {
		view += "Hero: " + s.Hero + "\n"
	}
	view += "\n"

	if len(s.Units) == 0 {
		view += "No units placed."
	}
	for _, u := range s.Units {
		sold := ""
		if u.Sold {
			sold = " [sold]"
		}
		view += fmt.Sprintf(" - %s (%s) %s at %s, value %d%s\n", u.Name, u.Kind, playthrough.UpgradeString(u.Upgrades), u.Pos, u.Value, sold)
	}
	if n := len(s.Diagnostics); n > 0 {
		view += fmt.Sprintf("\n%d lines skipped", n)
	}
	return stateBoxStyle.Width(m.width - 4).Render(view)
}

func (m *composeModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	s := m.builder.Script()
	title := titleStyle.Render(fmt.Sprintf(" AutoBTD6 composer | %s ", s.Identity.Encode()))
	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	inputArea := m.textInput.View()
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", inputArea, autocompleteStyle.Render(m.suggestions.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.renderState(),
		logBox,
		"\n",
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete, up/down history)"),
	) + strings.Repeat("\n", 7)
}

// composeIdentity builds the identity of a new playthrough from its parts.
func composeIdentity(mapName, gamemode, resolution string, flags []string) (playthrough.Identity, error) {
	name := strings.Join(append([]string{mapName, gamemode, resolution}, flags...), "#") + playthrough.Extension
	return playthrough.Decode(name)
}

var composeCmd = &cobra.Command{
	Use:   "compose [map] [gamemode]",
	Short: "Write a playthrough interactively",
	Long: `Starts an interactive shell that prices each instruction as it is typed,
tracks the placed units and saves the result under its canonical filename.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		flags, _ := cmd.Flags().GetStringSlice("flag")
		id, err := composeIdentity(args[0], args[1], e.cfg.Resolution.String(), flags)
		if err != nil {
			return err
		}
		b, err := e.parser.NewBuilder(id, "")
		if err != nil {
			return err
		}

		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" && len(e.cfg.PlaythroughDirs) > 0 {
			outDir = e.cfg.PlaythroughDirs[0]
		}

		m := newComposeModel(b, e.tables.Towers, outDir)
		p := tea.NewProgram(&m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("composer failed: %w", err)
		}
		if m.saved != "" {
			fmt.Printf("Saved %s\n", m.saved)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(composeCmd)
	composeCmd.Flags().StringSlice("flag", nil, "filename flags (noMK, noLL, ...)")
	composeCmd.Flags().String("out", "", "directory to save into (default: the first playthrough directory)")
}
