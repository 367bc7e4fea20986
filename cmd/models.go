package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nunajera/mistral-chat/internal"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(22)
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	defaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the selectable models",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, m := range internal.Models {
			line := labelStyle.Render(m.Label) + idStyle.Render(m.ID)
			if m.ID == cfg.Mistral.DefaultModel {
				line += " " + defaultStyle.Render("(default)")
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
