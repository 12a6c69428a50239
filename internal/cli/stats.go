package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journal statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(cmd)
	},
}

func runStats(cmd *cobra.Command) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.unlock() {
		return nil
	}

	st, err := a.journal.Stats()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Dreams:    %d (%d lucid, %d recurring)\n", st.TotalDreams, st.LucidDreams, st.RecurringCount)
	fmt.Fprintf(out, "Goals:     %d/%d achieved\n", st.GoalsDone, st.GoalsTotal)
	fmt.Fprintf(out, "Streak:    %d day(s)\n", st.CurrentStreak)

	if len(st.PerMonth) > 0 {
		months := make([]string, 0, len(st.PerMonth))
		for m := range st.PerMonth {
			months = append(months, m)
		}
		sort.Strings(months)
		fmt.Fprintln(out, "\nBy month:")
		for _, m := range months {
			fmt.Fprintf(out, "  %s  %d\n", m, st.PerMonth[m])
		}
	}

	if len(st.TopTags) > 0 {
		fmt.Fprintln(out, "\nTop tags:")
		limit := len(st.TopTags)
		if limit > 10 {
			limit = 10
		}
		for _, tc := range st.TopTags[:limit] {
			fmt.Fprintf(out, "  %-20s %d\n", tc.Tag, tc.Count)
		}
	}
	return nil
}
