// Command inkwell-demo is an interactive editor built on the inkwell engine.
//
// It loads an optional yaml config, enables markdown styling and spell
// checking when configured, and writes logs to a file so the terminal stays
// clean.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"

	"github.com/iw2rmb/inkwell"
	"github.com/iw2rmb/inkwell/editor"
	"github.com/iw2rmb/inkwell/internal/logging"
	"github.com/iw2rmb/inkwell/layout"
)

const sample = `# inkwell

Type to edit. Markdown like **bold**, *italic* and ` + "`code`" + ` is styled
while you type, and misspeled words are underlined when a dictionary is set.

ctrl+f find, ctrl+g / alt+g next / previous match
alt+s suggestions, ctrl+r apply the first suggestion
ctrl+w cycle wrap mode, ctrl+q quit
`

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

type model struct {
	editor editor.Model
	find   textinput.Model
	// finding routes keys to the find prompt.
	finding bool

	suggest editor.SuggestionsMsg
	status  string
	width   int
	height  int
}

func newModel(cfg editor.Config) model {
	ti := textinput.New()
	ti.Prompt = "find: "
	ti.Placeholder = "text"
	return model{
		editor: editor.New(cfg),
		find:   ti,
		status: "inkwell " + inkwell.Version(),
	}
}

func (m model) Init() tea.Cmd { return m.editor.Init() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.editor = m.editor.SetSize(msg.Width, editorHeight(msg.Height))
		m.find.Width = max(msg.Width-len(m.find.Prompt)-1, 0)
		return m, nil
	case editor.SuggestionsMsg:
		m.suggest = msg
		switch {
		case msg.Err != nil:
			m.status = "suggestions: " + msg.Err.Error()
		case len(msg.Words) == 0:
			m.status = fmt.Sprintf("no suggestions for %q", msg.Word)
		default:
			m.status = fmt.Sprintf("%s: %s", msg.Word, strings.Join(msg.Words, ", "))
		}
		return m, nil
	case tea.KeyMsg:
		if m.finding {
			return m.updateFind(msg)
		}
		switch msg.String() {
		case "ctrl+q":
			return m, tea.Quit
		case "ctrl+f":
			m.finding = true
			m.editor = m.editor.Blur()
			return m, m.find.Focus()
		case "ctrl+w":
			return m.cycleWrap(), nil
		case "ctrl+r":
			if len(m.suggest.Words) > 0 {
				m.editor = m.editor.ReplaceRange(m.suggest.Range, m.suggest.Words[0])
				m.status = fmt.Sprintf("replaced %q", m.suggest.Word)
				m.suggest = editor.SuggestionsMsg{}
			}
			return m, nil
		}
	}

	var cmds []tea.Cmd
	if m.finding {
		var cmd tea.Cmd
		m.find, cmd = m.find.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, tea.Batch(append(cmds, cmd)...)
}

func (m model) updateFind(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		if msg.String() == "enter" {
			m.editor = m.editor.SetFindQuery(m.find.Value(), false).FindNext()
			m.status = fmt.Sprintf("%d matches", len(m.editor.FindMatches()))
		}
		m.finding = false
		m.find.Blur()
		m.editor = m.editor.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.find, cmd = m.find.Update(msg)
	return m, cmd
}

func (m model) cycleWrap() model {
	next := layout.WrapNone
	switch m.editor.Layout().WrapMode() {
	case layout.WrapNone:
		next = layout.WrapWord
	case layout.WrapWord:
		next = layout.WrapChar
	}
	m.editor = m.editor.SetWrapMode(next)
	m.status = "wrap: " + next.String()
	return m
}

func (m model) View() string {
	bottom := statusStyle.Render(m.statusLine())
	if m.finding {
		bottom = m.find.View()
	}
	return m.editor.View() + "\n" + bottom
}

func (m model) statusLine() string {
	c := m.editor.Buffer().Cursor()
	s := fmt.Sprintf("%d:%d  %s", c.Line+1, c.Char+1, m.status)
	if m.width > 0 && lipgloss.Width(s) > m.width {
		s = string([]rune(s)[:m.width])
	}
	return s
}

func editorHeight(total int) int {
	if total <= 1 {
		return 0
	}
	return total - 1
}

func run(configPath, logPath string) error {
	cfg := editor.DefaultConfig()
	cfg.ShowLineNums = true
	cfg.Markdown.Enabled = true
	if configPath != "" {
		var err error
		if cfg, err = editor.LoadConfig(configPath); err != nil {
			return err
		}
	}

	var logOut io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrap(err, "open log file")
		}
		defer f.Close()
		logOut = f
	}
	cfg.Logger = logging.New(logOut, logging.ParseLevel(cfg.LogLevel))
	cfg.Clipboard = editor.SystemClipboard{}
	if cfg.Text == "" {
		cfg.Text = sample
	}

	lipgloss.SetColorProfile(termenv.EnvColorProfile())

	m := newModel(cfg)
	defer m.editor.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return errors.Wrap(err, "run editor")
}

func main() {
	configPath := flag.String("config", "", "yaml editor config")
	logPath := flag.String("log", "", "append logs to this file")
	flag.Parse()

	if err := run(*configPath, *logPath); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
