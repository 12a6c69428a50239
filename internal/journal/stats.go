package journal

import (
	"sort"
	"time"

	"github.com/somnium-cli/somnium/internal/domain"
)

// TagCount pairs a tag with how many dreams carry it.
type TagCount struct {
	Tag   string
	Count int
}

// Stats summarizes the journal for the stats view.
type Stats struct {
	TotalDreams    int
	LucidDreams    int
	RecurringCount int
	PerMonth       map[string]int // YYYY-MM -> dreams recorded
	TopTags        []TagCount     // descending by count, ties by name
	CurrentStreak  int            // consecutive days with a dream, ending at the latest entry
	GoalsTotal     int
	GoalsDone      int
}

// Stats aggregates the journal in memory.
func (s *Service) Stats() (*Stats, error) {
	dreams, err := s.Dreams()
	if err != nil {
		return nil, err
	}
	goals, err := s.Goals()
	if err != nil {
		return nil, err
	}

	st := &Stats{
		TotalDreams: len(dreams),
		PerMonth:    make(map[string]int),
		GoalsTotal:  len(goals),
	}
	for _, g := range goals {
		if g.Done {
			st.GoalsDone++
		}
	}

	tagCounts := make(map[string]int)
	days := make(map[string]bool)
	for _, d := range dreams {
		if d.Lucid {
			st.LucidDreams++
		}
		if d.Recurring {
			st.RecurringCount++
		}
		if len(d.Date) >= 7 {
			st.PerMonth[d.Date[:7]]++
		}
		days[d.Date] = true
		for _, tag := range d.Tags {
			tagCounts[tag]++
		}
	}

	for tag, count := range tagCounts {
		st.TopTags = append(st.TopTags, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(st.TopTags, func(i, j int) bool {
		if st.TopTags[i].Count == st.TopTags[j].Count {
			return st.TopTags[i].Tag < st.TopTags[j].Tag
		}
		return st.TopTags[i].Count > st.TopTags[j].Count
	})

	st.CurrentStreak = streak(days)
	return st, nil
}

// streak returns the longest run of consecutive days ending at the most
// recent day with a dream.
func streak(days map[string]bool) int {
	if len(days) == 0 {
		return 0
	}
	var latest string
	for day := range days {
		if day > latest {
			latest = day
		}
	}
	t, err := time.Parse(DateFormat, latest)
	if err != nil {
		return 0
	}
	n := 0
	for days[t.Format(DateFormat)] {
		n++
		t = t.AddDate(0, 0, -1)
	}
	return n
}

// Export is the decrypted snapshot of the whole journal.
type Export struct {
	ExportedAt  time.Time           `json:"exported_at"`
	Dreams      []*domain.Dream     `json:"dreams"`
	Goals       []*domain.Goal      `json:"goals"`
	Suggestions map[string][]string `json:"suggestions"`
}

// Snapshot collects every entity in decrypted form for export.
func (s *Service) Snapshot() (*Export, error) {
	dreams, err := s.Dreams()
	if err != nil {
		return nil, err
	}
	goals, err := s.Goals()
	if err != nil {
		return nil, err
	}
	lists, err := s.SuggestionLists()
	if err != nil {
		return nil, err
	}
	suggestions := make(map[string][]string, len(lists))
	for _, list := range lists {
		values, err := s.Suggestions(list)
		if err != nil {
			return nil, err
		}
		suggestions[list] = values
	}
	return &Export{
		ExportedAt:  time.Now().UTC(),
		Dreams:      dreams,
		Goals:       goals,
		Suggestions: suggestions,
	}, nil
}
