package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/marcus/flyout/pkg/flyout/menu"
	"github.com/marcus/flyout/pkg/flyout/tooltip"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var keysCmd = &cobra.Command{
	Use:     "keys",
	Short:   "List the default tooltip and menu key bindings",
	GroupID: "info",
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		out := cmd.OutOrStdout()
		if !plain {
			plain = !isTerminal(out)
		}
		rows := keyRows()
		if plain {
			writePlainKeys(out, rows)
			return nil
		}
		width := 0
		if f, ok := out.(*os.File); ok {
			if w, _, err := term.GetSize(int(f.Fd())); err == nil {
				width = w
			}
		}
		fmt.Fprintln(out, renderKeyTable(rows, width))
		return nil
	},
}

type keyRow struct {
	scope string
	keys  string
	desc  string
}

func keyRows() []keyRow {
	tk := tooltip.DefaultKeyMap()
	mk := menu.DefaultKeyMap()

	var rows []keyRow
	add := func(scope string, bindings ...key.Binding) {
		for _, b := range bindings {
			rows = append(rows, keyRow{
				scope: scope,
				keys:  strings.Join(b.Keys(), ", "),
				desc:  b.Help().Desc,
			})
		}
	}
	add("tooltip trigger", tk.Close)
	add("menu trigger", mk.Toggle, mk.OpenFirst, mk.OpenLast, mk.Close, mk.Tab)
	add("menu", mk.Select, mk.Close)
	add("menu", mk.Nav.Bindings(true, true)...)
	return rows
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writePlainKeys(w io.Writer, rows []keyRow) {
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.scope, r.keys, r.desc)
	}
}

func renderKeyTable(rows []keyRow, width int) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45")).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("241"))).
		Headers("SCOPE", "KEYS", "ACTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	if width > 0 {
		t = t.Width(width)
	}
	for _, r := range rows {
		t.Row(r.scope, r.keys, r.desc)
	}
	return t.Render()
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: "info", Title: "Info:"})
	rootCmd.AddCommand(keysCmd)

	keysCmd.Flags().Bool("plain", false, "Tab-separated output without styling")
}
