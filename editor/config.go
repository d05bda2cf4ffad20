package editor

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/inkwell/buffer"
	"github.com/iw2rmb/inkwell/layout"
	"github.com/iw2rmb/inkwell/spellcheck"
)

// Config configures the editor Model.
//
// The yaml-tagged fields can be loaded from a file with LoadConfig. The rest
// are wired by the host.
type Config struct {
	// Initial text for the internal buffer.
	Text string `yaml:"-"`

	ShowLineNums bool            `yaml:"line_numbers"`
	WrapMode     layout.WrapMode `yaml:"wrap"`
	// TabWidth is the tab stop interval in cells. Zero means 4.
	TabWidth     int          `yaml:"tab_width"`
	ReadOnly     bool         `yaml:"read_only"`
	ScrollPolicy ScrollPolicy `yaml:"scroll_policy"`

	// Forwarded to buffer.Options.
	HistoryLimit int `yaml:"history_limit"`

	Spell    SpellConfig    `yaml:"spell"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Colors   Colors         `yaml:"colors"`

	// LogLevel is read by hosts that build Logger from the file.
	LogLevel string `yaml:"log_level"`

	Style  Style  `yaml:"-"`
	KeyMap KeyMap `yaml:"-"`

	// Clipboard backs copy, cut and paste. Nil disables them.
	Clipboard Clipboard `yaml:"-"`

	Logger *slog.Logger `yaml:"-"`

	// OnChange is called after an update that changed the buffer version.
	OnChange func(ChangeEvent) `yaml:"-"`
	// OnCursor receives every cursor or selection change, including ones made
	// by the host directly on the buffer.
	OnCursor func(buffer.CursorState) `yaml:"-"`
}

type SpellConfig struct {
	Enabled bool `yaml:"enabled"`
	// Dictionary is a word list file, one word per line. LoadConfig resolves
	// it relative to the config file.
	Dictionary string        `yaml:"dictionary"`
	Delay      time.Duration `yaml:"delay"`

	// Checker enables spell checking when set.
	Checker spellcheck.Checker `yaml:"-"`
}

type MarkdownConfig struct {
	Enabled bool          `yaml:"enabled"`
	Delay   time.Duration `yaml:"delay"`
}

// Colors are lipgloss color specs ("205", "#ff8800") layered over
// DefaultStyle by ParseConfig.
type Colors struct {
	Selection  string `yaml:"selection"`
	Cursor     string `yaml:"cursor"`
	LineNumber string `yaml:"line_number"`
	Misspelled string `yaml:"misspelled"`
	FindMatch  string `yaml:"find_match"`
}

// DefaultConfig returns the settings used for fields a config file omits.
func DefaultConfig() Config {
	return Config{
		WrapMode: layout.WrapWord,
		TabWidth: 4,
		Spell:    SpellConfig{Delay: spellcheck.DefaultDelay},
		Style:    DefaultStyle(),
		KeyMap:   DefaultKeyMap(),
		LogLevel: "info",
	}
}

// ParseConfig decodes yaml settings on top of DefaultConfig. It does not read
// the spell dictionary; see LoadConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse editor config")
	}
	if cfg.TabWidth < 0 {
		return Config{}, errors.Errorf("parse editor config: negative tab_width %d", cfg.TabWidth)
	}
	cfg.Style = cfg.Style.withColors(cfg.Colors)
	return cfg, nil
}

// LoadConfig reads path with ParseConfig and loads the spell dictionary when
// spell checking is enabled.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read editor config %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, errors.Wrap(err, path)
	}
	if !cfg.Spell.Enabled {
		return cfg, nil
	}
	if cfg.Spell.Dictionary == "" {
		return Config{}, errors.Errorf("%s: spell checking enabled without a dictionary", path)
	}

	dict := cfg.Spell.Dictionary
	if !filepath.IsAbs(dict) {
		dict = filepath.Join(filepath.Dir(path), dict)
	}
	f, err := os.Open(dict)
	if err != nil {
		return Config{}, errors.Wrap(err, "open spell dictionary")
	}
	defer f.Close()

	words, err := spellcheck.LoadWordList(f)
	if err != nil {
		return Config{}, errors.Wrap(err, dict)
	}
	cfg.Spell.Checker = words
	return cfg, nil
}
