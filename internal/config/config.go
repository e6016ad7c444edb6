// Package config loads and saves flyout's per-directory settings file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/marcus/flyout/pkg/flyout/keynav"
	"github.com/marcus/flyout/pkg/flyout/menu"
	"github.com/marcus/flyout/pkg/flyout/placement"
	"github.com/marcus/flyout/pkg/flyout/tooltip"
)

const configFile = ".flyout/config.json"

// Duration is a time.Duration stored as a string such as "750ms".
type Duration time.Duration

// MarshalJSON writes d in time.Duration.String form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of milliseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("invalid duration %s", data)
	}
	*d = Duration(time.Duration(ms) * time.Millisecond)
	return nil
}

// Config is the settings file.
type Config struct {
	Tooltip TooltipConfig `json:"tooltip"`
	Menu    MenuConfig    `json:"menu"`
	LogFile string        `json:"log_file,omitempty"`
}

// TooltipConfig holds tooltip settings.
type TooltipConfig struct {
	OpenDelay          Duration `json:"open_delay"`
	Side               string   `json:"side"`
	Align              string   `json:"align"`
	CloseOnPointerDown bool     `json:"close_on_pointer_down"`
}

// MenuConfig holds menu settings.
type MenuConfig struct {
	Loop                bool   `json:"loop"`
	Typeahead           bool   `json:"typeahead"`
	FuzzyTypeahead      bool   `json:"fuzzy_typeahead"`
	CloseOnOutsideClick bool   `json:"close_on_outside_click"`
	Side                string `json:"side"`
	Align               string `json:"align"`
}

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		Tooltip: TooltipConfig{
			OpenDelay:          Duration(tooltip.DefaultOpenDelay),
			Side:               string(placement.Top),
			Align:              string(placement.Center),
			CloseOnPointerDown: true,
		},
		Menu: MenuConfig{
			Loop:                true,
			Typeahead:           true,
			CloseOnOutsideClick: true,
			Side:                string(placement.Bottom),
			Align:               string(placement.Start),
		},
	}
}

// Load reads the config from disk. Keys missing from the file keep their
// defaults; a missing file yields Default.
func Load(baseDir string) (*Config, error) {
	configPath := filepath.Join(baseDir, configFile)

	cfg := Default()
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", configPath, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	return cfg, nil
}

// Save writes the config to disk
func Save(baseDir string, cfg *Config) error {
	configPath := filepath.Join(baseDir, configFile)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Path returns the config file location under baseDir.
func Path(baseDir string) string {
	return filepath.Join(baseDir, configFile)
}

// TooltipOptions converts the tooltip settings into widget options.
func (c *Config) TooltipOptions() (tooltip.Options, error) {
	opts := tooltip.DefaultOptions()
	pl, err := parsePlacement(c.Tooltip.Side, c.Tooltip.Align, opts.Placement)
	if err != nil {
		return opts, fmt.Errorf("tooltip: %w", err)
	}
	opts.Placement = pl
	opts.OpenDelay = time.Duration(c.Tooltip.OpenDelay)
	if opts.OpenDelay < 0 {
		opts.OpenDelay = 0
	}
	opts.CloseOnPointerDown = c.Tooltip.CloseOnPointerDown
	return opts, nil
}

// MenuOptions converts the menu settings into widget options.
func (c *Config) MenuOptions() (menu.Options, error) {
	opts := menu.DefaultOptions()
	pl, err := parsePlacement(c.Menu.Side, c.Menu.Align, opts.Placement)
	if err != nil {
		return opts, fmt.Errorf("menu: %w", err)
	}
	opts.Placement = pl
	opts.Loop = c.Menu.Loop
	opts.Typeahead = c.Menu.Typeahead
	opts.CloseOnOutsideClick = c.Menu.CloseOnOutsideClick
	if c.Menu.FuzzyTypeahead {
		opts.TypeaheadMatch = keynav.MatchFuzzy
	}
	return opts, nil
}

func parsePlacement(side, align string, base placement.Config) (placement.Config, error) {
	if side != "" {
		s, err := placement.ParseSide(side)
		if err != nil {
			return base, err
		}
		base.Side = s
	}
	if align != "" {
		a, err := placement.ParseAlign(align)
		if err != nil {
			return base, err
		}
		base.Align = a
	}
	return base, nil
}
