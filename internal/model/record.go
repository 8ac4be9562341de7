package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

type InputMode string

const (
	InputText InputMode = "text"
	InputLink InputMode = "link"
)

func (m InputMode) Valid() bool {
	return m == InputText || m == InputLink
}

type AnalyzeRequest struct {
	Content string    `json:"content"`
	Type    InputMode `json:"type"`
}

type Content struct {
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Body     string `json:"body,omitempty"`
}

type AnalysisRecord struct {
	ID          string  `json:"id"`
	Title       string  `json:"title,omitempty"`
	Credibility Score   `json:"credibility"`
	Content     Content `json:"content"`
	Source      string  `json:"source,omitempty"`
	Analyzed    Time    `json:"analyzed"`
	CreatedAt   Time    `json:"createdAt"`
	AnalyzedAt  Time    `json:"analyzedAt"`
}

// Timestamp returns the first non-zero of analyzed, createdAt and analyzedAt.
func (r AnalysisRecord) Timestamp() time.Time {
	for _, ts := range []Time{r.Analyzed, r.CreatedAt, r.AnalyzedAt} {
		if !ts.IsZero() {
			return ts.Time
		}
	}
	return time.Time{}
}

// HasBody reports whether the record carries full content. History listings
// may omit it.
func (r AnalysisRecord) HasBody() bool {
	return r.Content.Body != ""
}

func (r AnalysisRecord) DisplayTitle() string {
	if title := strings.TrimSpace(r.Content.Title); title != "" {
		return title
	}
	if title := strings.TrimSpace(r.Title); title != "" {
		return title
	}
	return "Untitled analysis"
}

// Paragraphs splits the body on newlines and drops empty lines.
func (r AnalysisRecord) Paragraphs() []string {
	if r.Content.Body == "" {
		return nil
	}
	lines := strings.Split(r.Content.Body, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		paragraphs = append(paragraphs, line)
	}
	return paragraphs
}

var ErrMalformedHistory = errors.New("history payload is neither a list nor an object with a history field")

// HistoryList decodes either {"history": [...]} or a bare JSON array.
type HistoryList []AnalysisRecord

func (h *HistoryList) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		*h = nil
		return nil
	}

	if raw[0] == '[' {
		var items []AnalysisRecord
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("decode history list failed: %w", err)
		}
		*h = items
		return nil
	}

	var wrapped struct {
		History *[]AnalysisRecord `json:"history"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return fmt.Errorf("decode history list failed: %w", err)
	}
	if wrapped.History == nil {
		return ErrMalformedHistory
	}
	*h = *wrapped.History
	return nil
}
