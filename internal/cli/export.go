package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal as decrypted JSON",
	Long: `Export every dream, goal and suggestion list as a single decrypted
JSON document. When encryption is enabled the password is verified first.

Example:
  somnium export --out journal.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	var spin *spinner.Spinner
	if exportOut != "" {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		spin.Suffix = " Exporting journal..."
		spin.Start()
	}

	snapshot, err := a.journal.Snapshot()
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if exportOut == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if err := os.WriteFile(exportOut, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Journal exported to %s (%d dreams, %d goals)\n",
		exportOut, len(snapshot.Dreams), len(snapshot.Goals))
	return nil
}
