package history

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/xfcbe/fake-news-detection/internal/model"
)

func record(id string, ts time.Time) model.AnalysisRecord {
	return model.AnalysisRecord{ID: id, Analyzed: model.Time{Time: ts}}
}

func ids(records []model.AnalysisRecord) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGroupByDate(t *testing.T) {
	now := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	groups := GroupByDate([]model.AnalysisRecord{
		record("now", now),
		record("yesterday", now.Add(-24*time.Hour)),
		record("three-days", now.Add(-72*time.Hour)),
	}, now)

	if !equal(ids(groups.Today), []string{"now"}) {
		t.Fatalf("unexpected today: %v", ids(groups.Today))
	}
	if !equal(ids(groups.Yesterday), []string{"yesterday"}) {
		t.Fatalf("unexpected yesterday: %v", ids(groups.Yesterday))
	}
	if !equal(ids(groups.Older), []string{"three-days"}) {
		t.Fatalf("unexpected older: %v", ids(groups.Older))
	}
}

func TestGroupByDateUsesElapsedDaysNotCalendarDays(t *testing.T) {
	now := time.Date(2025, 3, 4, 0, 30, 0, 0, time.UTC)
	// Last night before midnight is still less than 24h ago.
	groups := GroupByDate([]model.AnalysisRecord{
		record("late-last-night", now.Add(-2*time.Hour)),
		record("just-over-a-day", now.Add(-25*time.Hour)),
		record("just-under-two-days", now.Add(-47*time.Hour)),
		record("exactly-two-days", now.Add(-48*time.Hour)),
	}, now)

	if !equal(ids(groups.Today), []string{"late-last-night"}) {
		t.Fatalf("unexpected today: %v", ids(groups.Today))
	}
	if !equal(ids(groups.Yesterday), []string{"just-over-a-day", "just-under-two-days"}) {
		t.Fatalf("unexpected yesterday: %v", ids(groups.Yesterday))
	}
	if !equal(ids(groups.Older), []string{"exactly-two-days"}) {
		t.Fatalf("unexpected older: %v", ids(groups.Older))
	}
}

func TestGroupByDatePreservesOrderAndHandlesOddTimestamps(t *testing.T) {
	now := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	fallback := model.AnalysisRecord{ID: "created", CreatedAt: model.Time{Time: now.Add(-time.Hour)}}
	groups := GroupByDate([]model.AnalysisRecord{
		record("b", now.Add(-2*time.Hour)),
		record("future", now.Add(time.Hour)),
		{ID: "no-time"},
		record("a", now.Add(-time.Hour)),
		fallback,
	}, now)

	if !equal(ids(groups.Today), []string{"b", "a", "created"}) {
		t.Fatalf("expected input order kept, got=%v", ids(groups.Today))
	}
	if !equal(ids(groups.Older), []string{"future", "no-time"}) {
		t.Fatalf("expected future and missing timestamps in older, got=%v", ids(groups.Older))
	}
	if groups.Len() != 5 {
		t.Fatalf("expected 5 records, got=%d", groups.Len())
	}
}

func TestSectionsAndFlatten(t *testing.T) {
	now := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	groups := GroupByDate([]model.AnalysisRecord{
		record("old", now.Add(-100*time.Hour)),
		record("today", now),
	}, now)

	sections := groups.Sections()
	if len(sections) != 2 || sections[0].Title != "Today" || sections[1].Title != "Older" {
		t.Fatalf("unexpected sections: %#v", sections)
	}
	if !equal(ids(groups.Flatten()), []string{"today", "old"}) {
		t.Fatalf("unexpected flatten order: %v", ids(groups.Flatten()))
	}
	if len(GroupByDate(nil, now).Sections()) != 0 {
		t.Fatalf("expected no sections for empty history")
	}
}

func TestGroupByDateUnparseableTimestampIsOlder(t *testing.T) {
	now := time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC)
	var list model.HistoryList
	payload := `{"history":[{"id":"fresh","analyzed":"2025-03-04T10:00:00Z"},{"id":"bad","analyzed":"sometime last week"}]}`
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}

	groups := GroupByDate(list, now)
	if !equal(ids(groups.Today), []string{"fresh"}) || !equal(ids(groups.Older), []string{"bad"}) {
		t.Fatalf("unexpected groups: today=%v older=%v", ids(groups.Today), ids(groups.Older))
	}
}
