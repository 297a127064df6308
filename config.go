package main

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
)

//go:embed platex.default.json
var defaultConfigJSON []byte

// Config holds all platex configuration
type Config struct {
	Accent     string       `json:"accent"`
	Compiler   string       `json:"compiler"`
	DebounceMS int          `json:"debounce_ms"`
	TimeoutS   int          `json:"timeout_s"`
	LivePDF    bool         `json:"live_pdf"`
	Keys       KeyMapConfig `json:"keys"`
}

// KeyMapConfig defines key bindings in config file format
type KeyMapConfig struct {
	Save           []string `json:"save"`
	Compile        []string `json:"compile"`
	ToggleLive     []string `json:"toggle_live"`
	TogglePreview  []string `json:"toggle_preview"`
	ToggleLog      []string `json:"toggle_log"`
	ToggleTree     []string `json:"toggle_tree"`
	Search         []string `json:"search"`
	Assistant      []string `json:"assistant"`
	HelpPane       []string `json:"help_pane"`
	CommandPalette []string `json:"command_palette"`
	NextTab        []string `json:"next_tab"`
	PrevTab        []string `json:"prev_tab"`
	CloseTab       []string `json:"close_tab"`
	CyclePane      []string `json:"cycle_pane"`
	ClosePane      []string `json:"close_pane"`
	Quit           []string `json:"quit"`
	ShowKeys       []string `json:"show_keys"`

	Up    []string `json:"up"`
	Down  []string `json:"down"`
	Left  []string `json:"left"`
	Right []string `json:"right"`
	Home  []string `json:"home"`
	End   []string `json:"end"`
	PgUp  []string `json:"pgup"`
	PgDn  []string `json:"pgdn"`

	Backspace []string `json:"backspace"`
	Delete    []string `json:"delete"`
}

// LoadConfig loads configuration from first found config file
func LoadConfig() Config {
	paths := []string{
		"platex.json",
		filepath.Join(os.Getenv("HOME"), ".config", "platex", "platex.json"),
		"platex.default.json",
	}

	for _, path := range paths {
		if cfg, err := loadConfigFile(path); err == nil {
			return cfg
		}
	}

	// Fall back to embedded default config
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		panic("embedded default config is invalid: " + err.Error())
	}
	return cfg
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ToKeyMap converts config to KeyMap
func (c *Config) ToKeyMap() KeyMap {
	return KeyMap{
		Save:          binding(c.Keys.Save, "save"),
		Compile:       binding(c.Keys.Compile, "compile"),
		ToggleLive:    binding(c.Keys.ToggleLive, "live pdf"),
		TogglePreview: binding(c.Keys.TogglePreview, "preview"),
		ToggleLog:     binding(c.Keys.ToggleLog, "log"),
		ToggleTree:    binding(c.Keys.ToggleTree, "files"),
		Search:        binding(c.Keys.Search, "search"),
		Assistant:     binding(c.Keys.Assistant, "assistant"),
		HelpPane:      binding(c.Keys.HelpPane, "help"),
		Palette:       binding(c.Keys.CommandPalette, "commands"),
		NextTab:       binding(c.Keys.NextTab, "next tab"),
		PrevTab:       binding(c.Keys.PrevTab, "prev tab"),
		CloseTab:      binding(c.Keys.CloseTab, "close tab"),
		CyclePane:     binding(c.Keys.CyclePane, "cycle pane"),
		ClosePane:     binding(c.Keys.ClosePane, "close pane"),
		Quit:          binding(c.Keys.Quit, "quit"),
		ShowKeys:      binding(c.Keys.ShowKeys, "show keys"),

		Up:        binding(c.Keys.Up, "up"),
		Down:      binding(c.Keys.Down, "down"),
		Left:      binding(c.Keys.Left, "left"),
		Right:     binding(c.Keys.Right, "right"),
		Home:      binding(c.Keys.Home, "line start"),
		End:       binding(c.Keys.End, "line end"),
		PgUp:      binding(c.Keys.PgUp, "page up"),
		PgDn:      binding(c.Keys.PgDn, "page down"),
		Backspace: binding(c.Keys.Backspace, "delete back"),
		Delete:    binding(c.Keys.Delete, "delete forward"),
	}
}

// binding creates a key binding, returning a disabled binding if keys is empty
func binding(keys []string, help string) key.Binding {
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keys[0], help),
	)
}
