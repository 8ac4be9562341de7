package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xfcbe/fake-news-detection/internal/app"
	"github.com/xfcbe/fake-news-detection/internal/history"
	"github.com/xfcbe/fake-news-detection/internal/model"
)

const analyzedLayout = "Jan 2, 2006 3:04:05 PM"

func (m Model) viewContent(state app.State, p palette) string {
	width := m.contentWidth(state.SidebarOpen)
	var body string
	switch {
	case state.Analyzing:
		body = m.spinner.View() + " " + p.text.Render("Analyzing content with AI...")
	case state.Error != "":
		body = p.banner.Width(max(20, width-6)).Render(state.Error + "\n\n" + p.dim.Render("Esc: Try Again"))
	case state.View == app.ViewResults && state.Selected != nil:
		return m.results.View()
	default:
		body = m.viewHome(state, p)
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 2).Render(body)
}

func (m Model) viewHome(state app.State, p palette) string {
	var b strings.Builder
	b.WriteString(p.title.Render("VeriNews"))
	b.WriteString("\n\n")

	text, link := p.tab, p.tab
	hint := "Paste article text or claims to verify"
	if state.InputMode == model.InputLink {
		link = p.tabActive
		hint = "Check URLs for credibility"
	} else {
		text = p.tabActive
	}
	b.WriteString(text.Render("Text Analysis") + " " + link.Render("Link Verification"))
	b.WriteString("\n")
	b.WriteString(p.dim.Render(hint))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(p.notice.Render(m.notice))
	}
	return b.String()
}

// renderResults lays out a record for the results viewport.
func (m Model) renderResults(rec model.AnalysisRecord, state app.State) string {
	p := paletteFor(state.Theme)
	width := max(20, m.contentWidth(state.SidebarOpen)-4)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	if rec.Source != "" {
		b.WriteString(p.dim.Render("Original Source: " + rec.Source))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "%s  %s %s\n\n",
		p.badge(rec.Credibility),
		p.text.Render("Credibility Score"),
		p.dim.Render("("+string(rec.Credibility.Level())+")"),
	)

	b.WriteString(wrap.Inherit(p.title).Padding(0).Render(rec.DisplayTitle()))
	b.WriteString("\n")
	if rec.Content.Subtitle != "" {
		b.WriteString(wrap.Inherit(p.subtitle).Render(rec.Content.Subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	paragraphs := rec.Paragraphs()
	switch {
	case len(paragraphs) > 0:
		for _, para := range paragraphs {
			b.WriteString(wrap.Inherit(p.text).Render(para))
			b.WriteString("\n\n")
		}
	case state.LoadingItem:
		b.WriteString(m.spinner.View() + " " + p.dim.Render("Loading article..."))
		b.WriteString("\n\n")
	}

	if ts := rec.Timestamp(); !ts.IsZero() {
		b.WriteString(p.dim.Render("Analyzed " + ts.Local().Format(analyzedLayout)))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

func (m Model) viewSidebar(state app.State, p palette) string {
	var b strings.Builder
	b.WriteString(p.title.Render("History"))
	b.WriteString("\n\n")

	groups := history.GroupByDate(state.History, m.now())
	if groups.Len() == 0 {
		if state.LoadingHistory {
			b.WriteString(m.spinner.View() + " " + p.dim.Render("Loading history..."))
		} else {
			b.WriteString(p.dim.Render("No history yet"))
			b.WriteString("\n")
			b.WriteString(p.dim.Render("Start analyzing content"))
		}
	}

	focused := m.focus == focusSidebar
	selectedID := ""
	if state.Selected != nil {
		selectedID = state.Selected.ID
	}

	idx := 0
	for _, section := range groups.Sections() {
		b.WriteString(p.section.Render(section.Title))
		b.WriteString("\n")
		for _, item := range section.Items {
			title := truncate(item.DisplayTitle(), sidebarWidth-14)
			marker := "  "
			switch {
			case focused && idx == m.cursor:
				marker = "▸ "
				title = p.selected.Render(title)
			case item.ID == selectedID:
				title = p.text.Bold(true).Render(title)
			default:
				title = p.normal.Render(title)
			}
			b.WriteString(marker + p.badge(item.Credibility) + " " + title + "\n")
			idx++
		}
		b.WriteString("\n")
	}

	style := p.sidebar
	if focused {
		style = p.sidebarOn
	}
	return style.
		Width(sidebarWidth - 3).
		Height(max(1, m.height-chromeHeight)).
		MaxHeight(max(1, m.height-chromeHeight)).
		Render(strings.TrimRight(b.String(), "\n"))
}

func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if limit <= 1 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
