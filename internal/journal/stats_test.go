package journal

import (
	"testing"

	"github.com/somnium-cli/somnium/internal/domain"
)

func TestStatsAggregation(t *testing.T) {
	e := newEnv(t, "")

	seed := []*domain.Dream{
		{Title: "a", Date: "2026-08-28", Lucid: true, Tags: []string{"flying", "city"}},
		{Title: "b", Date: "2026-08-29", Tags: []string{"flying"}},
		{Title: "c", Date: "2026-08-30", Recurring: true, Tags: []string{"flying", "water"}},
		{Title: "d", Date: "2026-07-15"},
	}
	for _, d := range seed {
		if _, err := e.svc.AddDream(d); err != nil {
			t.Fatalf("Failed to seed dream %s: %v", d.Title, err)
		}
	}
	g, err := e.svc.AddGoal("Look at my hands")
	if err != nil {
		t.Fatalf("Failed to seed goal: %v", err)
	}
	if _, err := e.svc.AddGoal("Find a mirror"); err != nil {
		t.Fatalf("Failed to seed goal: %v", err)
	}
	if _, err := e.svc.CompleteGoal(g.ID); err != nil {
		t.Fatalf("Failed to complete goal: %v", err)
	}

	st, err := e.svc.Stats()
	if err != nil {
		t.Fatalf("Failed to compute stats: %v", err)
	}

	if st.TotalDreams != 4 {
		t.Errorf("TotalDreams = %d, want 4", st.TotalDreams)
	}
	if st.LucidDreams != 1 {
		t.Errorf("LucidDreams = %d, want 1", st.LucidDreams)
	}
	if st.RecurringCount != 1 {
		t.Errorf("RecurringCount = %d, want 1", st.RecurringCount)
	}
	if st.GoalsTotal != 2 || st.GoalsDone != 1 {
		t.Errorf("Goals = %d/%d, want 1/2", st.GoalsDone, st.GoalsTotal)
	}
	if st.PerMonth["2026-08"] != 3 || st.PerMonth["2026-07"] != 1 {
		t.Errorf("PerMonth = %v", st.PerMonth)
	}

	// Three consecutive days ending at the latest entry.
	if st.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", st.CurrentStreak)
	}

	if len(st.TopTags) == 0 || st.TopTags[0].Tag != "flying" || st.TopTags[0].Count != 3 {
		t.Errorf("TopTags = %v, want flying first with count 3", st.TopTags)
	}
}

func TestStatsEmptyJournal(t *testing.T) {
	e := newEnv(t, "")

	st, err := e.svc.Stats()
	if err != nil {
		t.Fatalf("Failed to compute stats: %v", err)
	}
	if st.TotalDreams != 0 || st.CurrentStreak != 0 || len(st.TopTags) != 0 {
		t.Errorf("Empty journal should produce zero stats: %+v", st)
	}
}

func TestSnapshotCollectsEverything(t *testing.T) {
	e := newEnv(t, "")

	if _, err := e.svc.AddDream(&domain.Dream{Title: "a", Date: "2026-08-30", Tags: []string{"flying"}}); err != nil {
		t.Fatalf("Failed to seed dream: %v", err)
	}
	if _, err := e.svc.AddGoal("goal"); err != nil {
		t.Fatalf("Failed to seed goal: %v", err)
	}

	snapshot, err := e.svc.Snapshot()
	if err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}
	if len(snapshot.Dreams) != 1 || len(snapshot.Goals) != 1 {
		t.Errorf("Snapshot missing entities: %+v", snapshot)
	}
	if tags := snapshot.Suggestions["tags"]; len(tags) != 1 || tags[0] != "flying" {
		t.Errorf("Snapshot suggestions = %v", snapshot.Suggestions)
	}
	if snapshot.ExportedAt.IsZero() {
		t.Error("ExportedAt should be set")
	}
}
