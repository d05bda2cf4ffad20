package editor

import (
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/internal/logging"
	"github.com/iw2rmb/inkwell/layout"
	"github.com/iw2rmb/inkwell/markdown"
	"github.com/iw2rmb/inkwell/richspan"
	"github.com/iw2rmb/inkwell/spellcheck"
)

// Model is a Bubble Tea component that renders and interacts with a buffer.
//
// Model is a value type like other Bubble Tea components, but the buffer,
// registry and layout index it points to are shared between copies. Only the
// model returned by the latest Update should be used.
type Model struct {
	cfg Config
	log *slog.Logger

	buf   *buffer.Buffer
	reg   *richspan.Registry
	index *layout.Index
	bg    *background

	focused bool

	viewport viewport.Model
	xOffset  int

	// Sticky column for visual vertical movement. It is valid while the
	// buffer is still at stickyVersion.
	stickyX       int
	stickyVersion uint64
	sticky        bool

	mouseDragging bool
	mouseAnchor   buffer.Pos
	lastClickAt   time.Time
	lastClickPos  buffer.Pos
	now           func() time.Time

	find findState

	scrollPending bool
	scrollTo      buffer.Pos

	lastBufVersion  uint64
	lastTextVersion uint64
	lastCursor      buffer.Pos
	rendered        renderKey
}

// background holds what must outlive model copies: the services posting
// results and the subscriptions made in New.
type background struct {
	inbox  *inbox
	spell  *spellcheck.Service
	md     *markdown.Styler
	unsubs []func()
	closed bool
}

type renderKey struct {
	bufVersion uint64
	regVersion uint64
	yOffset    int
	xOffset    int
	width      int
	height     int
	focused    bool
	find       uint64
}

func New(cfg Config) Model {
	if cfg.KeyMap.isZero() {
		cfg.KeyMap = DefaultKeyMap()
	}
	if cfg.TabWidth <= 0 {
		cfg.TabWidth = 4
	}

	buf := buffer.New(cfg.Text, buffer.Options{HistoryLimit: cfg.HistoryLimit})
	reg := richspan.NewRegistry()
	bg := &background{inbox: newInbox()}

	// The registry must see each change before the index copies spans.
	bg.unsubs = append(bg.unsubs, reg.Attach(buf))
	index := layout.New(buf, layout.Options{
		Measurer: layout.CellMeasurer{TabWidth: cfg.TabWidth},
		Mode:     cfg.WrapMode,
	})
	index.SetRichSpans(reg)
	bg.unsubs = append(bg.unsubs, buf.Subscribe(index.Update))
	if cfg.OnCursor != nil {
		bg.unsubs = append(bg.unsubs, buf.OnCursor(cfg.OnCursor))
	}

	if cfg.Spell.Checker != nil {
		bg.spell = spellcheck.New(buf, reg, cfg.Spell.Checker, spellcheck.Options{
			Logger: cfg.Logger,
			Delay:  cfg.Spell.Delay,
			Post:   bg.inbox.post,
			Color:  cfg.Style.Misspelled,
		})
	}
	if cfg.Markdown.Enabled {
		bg.md = markdown.NewStyler(buf, reg, markdown.Options{
			Logger: cfg.Logger,
			Delay:  cfg.Markdown.Delay,
			Post:   bg.inbox.post,
		})
	}

	m := Model{
		cfg:      cfg,
		log:      logging.Component(cfg.Logger, "editor"),
		buf:      buf,
		reg:      reg,
		index:    index,
		bg:       bg,
		focused:  true,
		viewport: viewport.New(0, 0),
		now:      time.Now,
	}
	m.lastBufVersion = buf.Version()
	m.lastTextVersion = buf.TextVersion()
	m.lastCursor = buf.Cursor()
	m.rebuildContent()
	return m
}

func (m Model) Buffer() *buffer.Buffer { return m.buf }

// Registry returns the rich span registry drawn over the text. Hosts may add
// their own spans under an owner of their choosing.
func (m Model) Registry() *richspan.Registry { return m.reg }

func (m Model) Layout() *layout.Index { return m.index }

// Init starts delivering background results when spell checking or markdown
// styling is enabled.
func (m Model) Init() tea.Cmd {
	if m.bg.spell == nil && m.bg.md == nil {
		return nil
	}
	return m.bg.inbox.wait()
}

// Close stops background work and releases buffer subscriptions. The model
// must not be updated afterwards.
func (m Model) Close() {
	if m.bg.closed {
		return
	}
	m.bg.closed = true
	if m.bg.spell != nil {
		m.bg.spell.Close()
	}
	if m.bg.md != nil {
		m.bg.md.Close()
	}
	for i := len(m.bg.unsubs) - 1; i >= 0; i-- {
		m.bg.unsubs[i]()
	}
	m.bg.unsubs = nil
	m.bg.inbox.close()
	m.log.Debug("editor closed")
}

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.viewport.Width = width
	m.viewport.Height = height

	m.index.SetWidth(m.wrapWidth())
	m.scrollToPos(m.buf.Cursor())
	m.rebuildContent()
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.scrollToPos(m.buf.Cursor())
		m.rebuildContent()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.mouseDragging = false
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) SetWrapMode(mode layout.WrapMode) Model {
	m.cfg.WrapMode = mode
	m.index.SetWrapMode(mode)
	m.index.SetWidth(m.wrapWidth())
	if mode != layout.WrapNone {
		m.xOffset = 0
	}
	m.scrollToPos(m.buf.Cursor())
	m.rebuildContent()
	return m
}

// ScrollIntoView scrolls so that p is visible. Requests are best effort: p is
// clamped to the document, and a later request or cursor movement replaces
// an earlier one.
func (m Model) ScrollIntoView(p buffer.Pos) Model {
	m.scrollPending = true
	m.scrollTo = p
	m.sync()
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case workMsg:
		msg.fn()
		if !m.bg.closed {
			cmd = m.bg.inbox.wait()
		}
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		m, cmd = m.updateKey(msg)
	case tea.MouseMsg:
		m, cmd = m.updateMouse(msg)
	}
	m.sync()
	return m, cmd
}

func (m Model) View() string { return m.viewport.View() }

// sync brings scroll state and rendered content up to date with the buffer
// and reports changes to the host.
func (m *Model) sync() {
	ver := m.buf.Version()
	cur := m.buf.Cursor()
	changed := ver != m.lastBufVersion

	if changed {
		m.index.SetWidth(m.wrapWidth())
	}
	if m.find.query != "" && m.find.textVersion != m.buf.TextVersion() {
		m.refreshFind()
	}
	if cur != m.lastCursor || (changed && m.buf.TextVersion() != m.lastTextVersion) {
		m.scrollToPos(cur)
	}
	if m.scrollPending {
		m.scrollPending = false
		m.scrollToPos(m.scrollTo)
	}

	if changed && m.cfg.OnChange != nil {
		m.cfg.OnChange(buildChangeEvent(m.buf, m.lastTextVersion))
	}
	m.lastBufVersion = ver
	m.lastTextVersion = m.buf.TextVersion()
	m.lastCursor = cur

	if m.currentRenderKey() != m.rendered {
		m.rebuildContent()
	}
}

func (m *Model) currentRenderKey() renderKey {
	return renderKey{
		bufVersion: m.buf.Version(),
		regVersion: m.reg.Version(),
		yOffset:    m.viewport.YOffset,
		xOffset:    m.xOffset,
		width:      m.viewport.Width,
		height:     m.viewport.Height,
		focused:    m.focused,
		find:       m.find.textVersion,
	}
}

func (m *Model) rebuildContent() {
	m.viewport.SetContent(m.renderContent())
	m.rendered = m.currentRenderKey()
}

// inbox carries functions posted by background services to the goroutine
// running Update.
type inbox struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

func newInbox() *inbox {
	return &inbox{ch: make(chan func(), 16), done: make(chan struct{})}
}

func (in *inbox) post(fn func()) {
	select {
	case in.ch <- fn:
	case <-in.done:
	}
}

func (in *inbox) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-in.ch:
			return workMsg{fn: fn}
		case <-in.done:
			return nil
		}
	}
}

func (in *inbox) close() { in.once.Do(func() { close(in.done) }) }
