package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/somnium-cli/somnium/internal/dialog"
	"github.com/somnium-cli/somnium/internal/domain"
)

var (
	dreamBody      string
	dreamDate      string
	dreamLucid     bool
	dreamRecurring bool
	dreamTags      []string
	dreamEmotions  []string
	dreamCopy      bool
)

var dreamCmd = &cobra.Command{
	Use:   "dream",
	Short: "Record and browse dreams",
}

var dreamAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Record a new dream",
	Long: `Record a new dream with the given title.

The dream body is read from --body, or prompted for interactively when the
flag is omitted. Tags and emotions are remembered in the autocomplete
suggestion lists for later entries.

Example:
  somnium dream add "Flying over the city" --lucid --tags flying,city
  somnium dream add "The locked door" --date 2026-08-30 --emotions fear`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDreamAdd(cmd, args[0])
	},
}

var dreamListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded dreams",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDreamList(cmd)
	},
}

var dreamShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a dream",
	Long: `Show a dream by id. An unambiguous id prefix is accepted.

With --copy the dream body is placed on the clipboard instead of printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDreamShow(cmd, args[0])
	},
}

var dreamDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a dream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDreamDelete(cmd, args[0])
	},
}

func init() {
	dreamAddCmd.Flags().StringVar(&dreamBody, "body", "", "Dream description (prompted when omitted)")
	dreamAddCmd.Flags().StringVar(&dreamDate, "date", "", "Dream date as YYYY-MM-DD (default today)")
	dreamAddCmd.Flags().BoolVar(&dreamLucid, "lucid", false, "Mark the dream as lucid")
	dreamAddCmd.Flags().BoolVar(&dreamRecurring, "recurring", false, "Mark the dream as recurring")
	dreamAddCmd.Flags().StringSliceVar(&dreamTags, "tags", nil, "Comma-separated tags")
	dreamAddCmd.Flags().StringSliceVar(&dreamEmotions, "emotions", nil, "Comma-separated emotions")

	dreamShowCmd.Flags().BoolVarP(&dreamCopy, "copy", "c", false, "Copy the dream body to the clipboard")

	dreamCmd.AddCommand(dreamAddCmd)
	dreamCmd.AddCommand(dreamListCmd)
	dreamCmd.AddCommand(dreamShowCmd)
	dreamCmd.AddCommand(dreamDeleteCmd)
}

func runDreamAdd(cmd *cobra.Command, title string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	body := dreamBody
	if body == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Describe the dream (end with an empty line):\n")
		body = readMultiline()
	}

	d, err := a.journal.AddDream(&domain.Dream{
		Title:     title,
		Body:      body,
		Date:      dreamDate,
		Lucid:     dreamLucid,
		Recurring: dreamRecurring,
		Tags:      dreamTags,
		Emotions:  dreamEmotions,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Dream recorded (%s)\n", shortID(d.ID))
	return nil
}

func runDreamList(cmd *cobra.Command) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	dreams, err := a.journal.Dreams()
	if err != nil {
		return err
	}
	if len(dreams) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No dreams recorded yet.")
		return nil
	}

	for _, d := range dreams {
		marker := " "
		if d.Lucid {
			marker = "L"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s  %s\n", d.Date, marker, shortID(d.ID), d.Title)
	}
	return nil
}

func runDreamShow(cmd *cobra.Command, id string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	d, err := a.journal.Dream(id)
	if err != nil {
		return err
	}

	if dreamCopy {
		if err := clipboard.WriteAll(d.Body); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Dream body copied to clipboard")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n", d.Date, d.Title)
	if d.Lucid {
		fmt.Fprintln(out, "lucid dream")
	}
	if d.Recurring {
		fmt.Fprintln(out, "recurring dream")
	}
	if len(d.Tags) > 0 {
		fmt.Fprintf(out, "tags: %s\n", strings.Join(d.Tags, ", "))
	}
	if len(d.Emotions) > 0 {
		fmt.Fprintf(out, "emotions: %s\n", strings.Join(d.Emotions, ", "))
	}
	fmt.Fprintf(out, "\n%s\n", d.Body)
	return nil
}

func runDreamDelete(cmd *cobra.Command, id string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	if cfg.ConfirmDestructive {
		confirmed, err := dialog.NewTerminal().Confirm(dialog.ConfirmConfig{
			Title:        "Delete dream?",
			Description:  "This cannot be undone.",
			ConfirmLabel: "yes",
		})
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	if err := a.journal.DeleteDream(id); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Dream deleted")
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func readMultiline() string {
	scanner := bufio.NewScanner(os.Stdin)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
