package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Manage autocomplete suggestion lists",
	Long: `Manage the autocomplete suggestion lists (tags, people, places,
emotions by default). Values recorded with dreams land here automatically.`,
}

var suggestListCmd = &cobra.Command{
	Use:   "list [name]",
	Short: "Show suggestion lists, or the values of one list",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return runSuggestList(cmd, name)
	},
}

var suggestAddCmd = &cobra.Command{
	Use:   "add <list> <value>",
	Short: "Add a value to a suggestion list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuggestAdd(cmd, args[0], args[1])
	},
}

var suggestRemoveCmd = &cobra.Command{
	Use:   "remove <list> <value>",
	Short: "Remove a value from a suggestion list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSuggestRemove(cmd, args[0], args[1])
	},
}

func init() {
	suggestCmd.AddCommand(suggestListCmd)
	suggestCmd.AddCommand(suggestAddCmd)
	suggestCmd.AddCommand(suggestRemoveCmd)
}

func runSuggestList(cmd *cobra.Command, name string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	if name == "" {
		lists, err := a.journal.SuggestionLists()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lists, "\n"))
		return nil
	}

	values, err := a.journal.Suggestions(name)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "List %q is empty.\n", name)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(values, "\n"))
	return nil
}

func runSuggestAdd(cmd *cobra.Command, list, value string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	if err := a.journal.AddSuggestion(list, value); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %q to %s\n", value, list)
	return nil
}

func runSuggestRemove(cmd *cobra.Command, list, value string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	if err := a.journal.RemoveSuggestion(list, value); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %q from %s\n", value, list)
	return nil
}
