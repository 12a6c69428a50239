package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Track dream goals",
}

var goalAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a dream goal",
	Long: `Add a dream goal, e.g. something to attempt in a lucid dream.

Example:
  somnium goal add "Look at my hands"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGoalAdd(cmd, args[0])
	},
}

var goalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGoalList(cmd)
	},
}

var goalDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a goal as achieved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGoalDone(cmd, args[0])
	},
}

var goalDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGoalDelete(cmd, args[0])
	},
}

func init() {
	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalDoneCmd)
	goalCmd.AddCommand(goalDeleteCmd)
}

func runGoalAdd(cmd *cobra.Command, text string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	g, err := a.journal.AddGoal(text)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Goal added (%s)\n", shortID(g.ID))
	return nil
}

func runGoalList(cmd *cobra.Command) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	goals, err := a.journal.Goals()
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No goals yet.")
		return nil
	}

	for _, g := range goals {
		mark := "[ ]"
		if g.Done {
			mark = "[x]"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", mark, shortID(g.ID), g.Text)
	}
	return nil
}

func runGoalDone(cmd *cobra.Command, id string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	g, err := a.journal.CompleteGoal(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Goal achieved: %s\n", g.Text)
	return nil
}

func runGoalDelete(cmd *cobra.Command, id string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	if err := a.journal.DeleteGoal(id); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Goal deleted")
	return nil
}
