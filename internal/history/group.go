// Package history buckets analyses by how many whole days ago they ran.
package history

import (
	"time"

	"github.com/xfcbe/fake-news-detection/internal/model"
)

const day = 24 * time.Hour

type Groups struct {
	Today     []model.AnalysisRecord
	Yesterday []model.AnalysisRecord
	Older     []model.AnalysisRecord
}

type Section struct {
	Title string
	Items []model.AnalysisRecord
}

func (g Groups) Len() int {
	return len(g.Today) + len(g.Yesterday) + len(g.Older)
}

// Sections lists the non-empty buckets in display order.
func (g Groups) Sections() []Section {
	sections := make([]Section, 0, 3)
	for _, s := range []Section{
		{Title: "Today", Items: g.Today},
		{Title: "Yesterday", Items: g.Yesterday},
		{Title: "Older", Items: g.Older},
	} {
		if len(s.Items) > 0 {
			sections = append(sections, s)
		}
	}
	return sections
}

// Flatten returns the records in section order, matching what Sections renders.
func (g Groups) Flatten() []model.AnalysisRecord {
	out := make([]model.AnalysisRecord, 0, g.Len())
	out = append(out, g.Today...)
	out = append(out, g.Yesterday...)
	return append(out, g.Older...)
}

// GroupByDate buckets records by floor((now - timestamp) / 24h): 0 is Today,
// 1 is Yesterday and everything else, including future and missing
// timestamps, is Older. Input order is kept inside each bucket.
func GroupByDate(records []model.AnalysisRecord, now time.Time) Groups {
	var groups Groups
	for _, rec := range records {
		switch daysAgo(rec.Timestamp(), now) {
		case 0:
			groups.Today = append(groups.Today, rec)
		case 1:
			groups.Yesterday = append(groups.Yesterday, rec)
		default:
			groups.Older = append(groups.Older, rec)
		}
	}
	return groups
}

func daysAgo(ts, now time.Time) int {
	if ts.IsZero() {
		return -1
	}
	diff := now.Sub(ts)
	if diff < 0 {
		return -1
	}
	return int(diff / day)
}
