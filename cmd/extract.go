package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nunajera/mistral-chat/internal/extract"
	"github.com/nunajera/mistral-chat/internal/gateway"
)

var (
	extractType   string
	extractBudget bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the text extracted from a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		mediaType := extractType
		if mediaType == "" {
			mediaType = mime.TypeByExtension(filepath.Ext(path))
		}
		kind := extract.DetectKind(mediaType, path, data)
		text, err := extract.Extract(data, mediaType, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s, %s\n", filepath.Base(path), kind, humanize.Bytes(uint64(len(data))))
		if extractBudget {
			budget := gateway.EffectiveBudget(cfg.Documents.CharBudget)
			var truncated bool
			text, truncated = gateway.Truncate(text, budget)
			if truncated {
				fmt.Fprintf(cmd.ErrOrStderr(), "truncated to %d characters\n", budget)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractType, "type", "", "media type override, e.g. application/pdf")
	extractCmd.Flags().BoolVar(&extractBudget, "budget", false, "apply the prompt character budget")
	rootCmd.AddCommand(extractCmd)
}
