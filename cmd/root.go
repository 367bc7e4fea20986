package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/nunajera/mistral-chat/internal/config"
	"github.com/nunajera/mistral-chat/internal/gateway"
	"github.com/nunajera/mistral-chat/internal/logging"
	"github.com/nunajera/mistral-chat/internal/provider"
)

var (
	configPath string
	verbose    bool
	offline    bool
	cfg        *config.Config

	version = "dev"
	commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mistral-chat",
	Short: "Chat with Mistral models from the browser or the terminal",
	Long: `mistral-chat forwards your messages, and optionally the text of uploaded
documents (txt, pdf, docx), to the Mistral chat completions API.

  mistral-chat serve              # HTTP API for the web front end
  mistral-chat chat               # interactive terminal chat
  mistral-chat extract report.pdf # print the text a document would contribute
  mistral-chat models             # list selectable models

The API key is read from MISTRAL_API_KEY (a .env file is honoured) or from
.streamlit/secrets.toml.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			c.Logging.Level = "debug"
		}
		logging.Init(c.Logging.Level)
		cfg = c
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// newGateway resolves the credential and builds the provider chain.
// With offline set, replies come from the mock provider and no key is needed.
func newGateway(c *config.Config, offline bool, reg prometheus.Registerer) (*gateway.Gateway, error) {
	var p provider.ChatProvider
	if offline {
		p = provider.MockProvider{}
	} else {
		key, err := c.APIKey()
		if err != nil {
			return nil, err
		}
		timeout, err := c.Timeout()
		if err != nil {
			return nil, err
		}
		mp, err := provider.NewMistralProvider(key, c.Endpoint(), timeout)
		if err != nil {
			return nil, err
		}
		p = mp
	}
	if reg != nil {
		p = provider.Instrument(p, reg)
	}
	return gateway.New(p, c.Documents.CharBudget), nil
}
