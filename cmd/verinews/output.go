package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/xfcbe/fake-news-detection/internal/history"
	"github.com/xfcbe/fake-news-detection/internal/model"
)

const analyzedLayout = "Jan 2, 2006 3:04:05 PM"

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output failed: %w", err)
	}
	return nil
}

func printRecord(w io.Writer, rec model.AnalysisRecord) {
	fmt.Fprintln(w, rec.DisplayTitle())
	if rec.Content.Subtitle != "" {
		fmt.Fprintln(w, rec.Content.Subtitle)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Credibility Score:\t%s (%s)\n", rec.Credibility, rec.Credibility.Level())
	if rec.Source != "" {
		fmt.Fprintf(tw, "Original Source:\t%s\n", rec.Source)
	}
	if ts := rec.Timestamp(); !ts.IsZero() {
		fmt.Fprintf(tw, "Analyzed:\t%s\n", ts.Local().Format(analyzedLayout))
	}
	if rec.ID != "" {
		fmt.Fprintf(tw, "ID:\t%s\n", rec.ID)
	}
	_ = tw.Flush()

	for _, para := range rec.Paragraphs() {
		fmt.Fprintf(w, "\n%s\n", para)
	}
}

func printSections(w io.Writer, sections []history.Section) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw, section.Title)
		for _, item := range section.Items {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", item.ID, item.Credibility, item.DisplayTitle())
		}
	}
	_ = tw.Flush()
}
