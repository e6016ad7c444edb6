package cmd

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/flyout/internal/config"
	"github.com/marcus/flyout/internal/demo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the interactive toolbar demo",
	Long: `Opens a full-screen toolbar with tooltip buttons and dropdown menus.

Flags override the matching keys in .flyout/config.json for this run only.`,
	Example: `  flyout demo
  flyout demo --open-delay 250ms --fuzzy
  flyout demo --menu-side top --no-loop`,
	GroupID: "run",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("demo needs an interactive terminal")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := applyDemoFlags(cmd.Flags(), cfg); err != nil {
			return err
		}
		opts, err := demoOptions(cfg)
		if err != nil {
			return err
		}

		m := demo.New(opts)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run demo: %w", err)
		}
		m.Close()
		return nil
	},
}

// applyDemoFlags copies explicitly set flags onto cfg.
func applyDemoFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "open-delay":
			d, derr := flags.GetDuration(f.Name)
			if derr != nil {
				err = derr
				return
			}
			if d < 0 {
				err = fmt.Errorf("--open-delay must not be negative, got %s", d)
				return
			}
			cfg.Tooltip.OpenDelay = config.Duration(d)
		case "tooltip-side":
			cfg.Tooltip.Side = f.Value.String()
		case "menu-side":
			cfg.Menu.Side = f.Value.String()
		case "no-loop":
			noLoop, berr := flags.GetBool(f.Name)
			if berr != nil {
				err = berr
				return
			}
			cfg.Menu.Loop = !noLoop
		case "fuzzy":
			fuzzy, berr := flags.GetBool(f.Name)
			if berr != nil {
				err = berr
				return
			}
			cfg.Menu.FuzzyTypeahead = fuzzy
		}
	})
	return err
}

func demoOptions(cfg *config.Config) (demo.Options, error) {
	tip, err := cfg.TooltipOptions()
	if err != nil {
		return demo.Options{}, err
	}
	mn, err := cfg.MenuOptions()
	if err != nil {
		return demo.Options{}, err
	}
	return demo.Options{Tooltip: tip, Menu: mn, Logger: slog.Default()}, nil
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: "run", Title: "Run:"})
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().Duration("open-delay", 0, "Tooltip hover delay (e.g. 250ms)")
	demoCmd.Flags().String("tooltip-side", "", "Tooltip side: top, bottom, left, right")
	demoCmd.Flags().String("menu-side", "", "Menu side: top, bottom, left, right")
	demoCmd.Flags().Bool("no-loop", false, "Stop menu navigation at either end")
	demoCmd.Flags().Bool("fuzzy", false, "Use fuzzy typeahead matching in menus")
}
