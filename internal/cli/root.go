// Package cli implements the somnium command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/somnium-cli/somnium/internal/config"
)

var (
	cfgFile     string
	journalPath string
	cfg         *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "somnium",
	Short: "A local-only encrypted dream journal",
	Long: `Somnium is a local-only dream journal for the terminal.

Dreams, goals and autocomplete suggestion lists are stored in a single
database file on this device. Optional password-based encryption protects
every record with AES-256-GCM; the password is never written to disk.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			cfgFile = config.DefaultPath()
		}

		var err error
		cfg, err = config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if journalPath == "" {
			journalPath = cfg.JournalPath
		}
		return nil
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/somnium/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "journal database path")

	rootCmd.AddCommand(dreamCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(encryptionCmd)
}
