package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brewin-lang/brewin/brewin"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	session     *brewin.Session
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	CtrlC     key.Binding
	CtrlD     key.Binding
	CtrlL     key.Binding
	Tab       key.Binding
	CtrlV     key.Binding
	CtrlH     key.Binding
	ShiftUp   key.Binding
	ShiftDown key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlV: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle vars"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
	ShiftUp: key.NewBinding(
		key.WithKeys("shift+up"),
	),
	ShiftDown: key.NewBinding(
		key.WithKeys("shift+down"),
	),
}

func newREPLModel() replModel {
	ti := textinput.New()
	ti.Placeholder = "type a statement, expression or class..."
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "brewin> "

	return replModel{
		textInput:  ti,
		session:    newREPLSession(io.Discard, errTerminalInput{}),
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

// newREPLSession builds a session whose inputs/inputi statements read from
// stdin and whose engine logs below warn level are dropped. Pass the same
// *bufio.Reader the prompt loop reads from so both see lines in order.
func newREPLSession(logOutput io.Writer, stdin io.Reader) *brewin.Session {
	logger, _ := newLogger(logOutput, "warn")
	return brewin.NewEngine(brewin.Config{Logger: logger, Stdin: stdin}).NewSession()
}

// errTerminalInput stands in for stdin in the full-screen REPL, where the
// terminal belongs to the text input.
type errTerminalInput struct{}

func (errTerminalInput) Read([]byte) (int, error) {
	return 0, errors.New("inputs and inputi are unavailable in the full-screen repl; use brewin repl -plain")
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlV):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, isErr := evaluate(m.session, input)
			m.history = append(m.history, historyEntry{
				input:  input,
				output: output,
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		output, isErr := sessionCommand(m.session, parts)
		m.history = append(m.history, historyEntry{
			input:  input,
			output: output,
			isErr:  isErr,
		})
	}
	return m, nil
}

// sessionCommand runs the colon commands shared by the TUI and the plain
// line loop.
func sessionCommand(session *brewin.Session, parts []string) (string, bool) {
	switch parts[0] {
	case ":reset", ":r":
		session.Reset()
		return "Session reset", false
	case ":classes":
		classes := session.Classes()
		if len(classes) == 0 {
			return "No classes defined", false
		}
		names := make([]string, 0, len(classes))
		for _, def := range classes {
			if def.Parent != nil {
				names = append(names, def.Name+" inherits "+def.Parent.Name)
				continue
			}
			names = append(names, def.Name)
		}
		return strings.Join(names, ", "), false
	case ":var":
		if len(parts) < 3 || len(parts) > 4 {
			return "usage: :var TYPE NAME [VALUE]", true
		}
		value := ""
		if len(parts) == 4 {
			value = parts[3]
		}
		typ, ok := replTypes[parts[1]]
		if !ok {
			return fmt.Sprintf("unknown type %s", parts[1]), true
		}
		if err := session.Declare(typ, parts[2], value); err != nil {
			return err.Error(), true
		}
		return fmt.Sprintf("%s %s declared", parts[1], parts[2]), false
	default:
		return fmt.Sprintf("Unknown command: %s", parts[0]), true
	}
}

var replTypes = map[string]brewin.Type{
	"int":    brewin.TypeInt,
	"bool":   brewin.TypeBool,
	"string": brewin.TypeString,
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	if input == "" {
		return m
	}

	lastWord := input
	if idx := strings.LastIndexAny(input, " ()"); idx >= 0 {
		lastWord = input[idx+1:]
	}
	if lastWord == "" {
		return m
	}

	var completions []string
	for _, k := range brewin.Keywords() {
		if strings.HasPrefix(k, lastWord) {
			completions = append(completions, k)
		}
	}
	for _, def := range m.session.Classes() {
		if strings.HasPrefix(def.Name, lastWord) {
			completions = append(completions, def.Name)
		}
	}
	for _, binding := range m.session.Bindings() {
		if strings.HasPrefix(binding.Name, lastWord) {
			completions = append(completions, binding.Name)
		}
	}

	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			input:  "",
			output: "Completions: " + strings.Join(completions, ", "),
			isErr:  false,
		})
	}

	return m
}

// evaluate runs input in session and renders printed output followed by the
// produced value, if any.
func evaluate(session *brewin.Session, input string) (string, bool) {
	res, err := session.Eval(input)
	var lines []string
	if out := strings.TrimSuffix(res.Output, "\n"); out != "" {
		lines = append(lines, out)
	}
	if err != nil {
		lines = append(lines, err.Error())
		return strings.Join(lines, "\n"), true
	}
	switch {
	case res.HasValue:
		lines = append(lines, res.Value.Literal())
	case len(res.Defined) > 0:
		lines = append(lines, "defined "+strings.Join(res.Defined, ", "))
	case len(lines) == 0:
		lines = append(lines, "ok")
	}
	return strings.Join(lines, "\n"), false
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("Brewin REPL")
	version := mutedStyle.Render("v0.1.0")
	b.WriteString(header + " " + version + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n")

	bindings := m.session.Bindings()
	reservedLines := 8
	if m.showHelp {
		reservedLines += 12
	}
	if m.showVars {
		reservedLines += len(bindings) + 3
	}
	availableHeight := m.height - reservedLines

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = max(0, len(m.history)-availableHeight)
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showVars {
		b.WriteString(renderVarsPanel(bindings))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+v") + helpDescStyle.Render(" vars  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderVarsPanel(bindings []brewin.Binding) string {
	if len(bindings) == 0 {
		return borderStyle.Render(mutedStyle.Render("No variables defined"))
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Variables"))
	varNameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, binding := range bindings {
		label := binding.Name
		if binding.Field {
			label = "me." + label
		}
		line := fmt.Sprintf("  %s = %s", varNameStyle.Render(label), binding.Value.Literal())
		lines = append(lines, line)
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate command history"},
		{"Tab", "Autocomplete"},
		{"Enter", "Evaluate form"},
		{":var", "Declare a variable: :var TYPE NAME [VALUE]"},
		{":classes", "List defined classes"},
		{":help", "Toggle this help"},
		{":vars", "Toggle variables panel"},
		{":clear", "Clear history"},
		{":reset", "Forget classes and variables"},
		{":quit", "Exit REPL"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	plain := fs.Bool("plain", false, "use the line-oriented prompt even on a terminal")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *plain || !isTerminal(os.Stdin) {
		in := bufio.NewReader(os.Stdin)
		return runLineREPL(in, os.Stdout, newREPLSession(os.Stderr, in))
	}
	return runREPL()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runREPL() error {
	p := tea.NewProgram(newREPLModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// runLineREPL reads forms from in until EOF, accumulating lines until their
// parentheses balance. It serves piped input and dumb terminals. Lines that
// an evaluated inputs/inputi consumes from the same reader are not forms.
func runLineREPL(in *bufio.Reader, w io.Writer, session *brewin.Session) error {
	var pending strings.Builder
	depth := 0
	for {
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read repl input: %w", err)
		}
		if err != nil && line == "" {
			break
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		trimmed := strings.TrimSpace(line)
		if pending.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			parts := strings.Fields(trimmed)
			if parts[0] == ":quit" || parts[0] == ":q" {
				return nil
			}
			output, _ := sessionCommand(session, parts)
			fmt.Fprintln(w, output)
			continue
		}
		if pending.Len() == 0 && trimmed == "" {
			continue
		}
		pending.WriteString(line)
		pending.WriteByte('\n')
		depth += parenDepth(line)
		if depth > 0 {
			continue
		}
		output, isErr := evaluate(session, pending.String())
		if isErr {
			output = "error: " + output
		}
		fmt.Fprintln(w, output)
		pending.Reset()
		depth = 0
	}
	if pending.Len() > 0 {
		output, _ := evaluate(session, pending.String())
		fmt.Fprintln(w, output)
	}
	return nil
}

// parenDepth is the net parenthesis count of line, ignoring strings and
// comments.
func parenDepth(line string) int {
	depth := 0
	inString := false
	for _, r := range line {
		switch {
		case inString:
			if r == '"' {
				inString = false
			}
		case r == '"':
			inString = true
		case r == '#':
			return depth
		case r == '(':
			depth++
		case r == ')':
			depth--
		}
	}
	return depth
}
