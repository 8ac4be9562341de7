package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/xfcbe/fake-news-detection/internal/app"
	"github.com/xfcbe/fake-news-detection/internal/model"
)

// palette holds every style the screens use. There is one per theme.
type palette struct {
	title     lipgloss.Style
	header    lipgloss.Style
	subtitle  lipgloss.Style
	text      lipgloss.Style
	dim       lipgloss.Style
	help      lipgloss.Style
	selected  lipgloss.Style
	normal    lipgloss.Style
	section   lipgloss.Style
	tabActive lipgloss.Style
	tab       lipgloss.Style
	label     lipgloss.Style
	labelOn   lipgloss.Style
	errorText lipgloss.Style
	banner    lipgloss.Style
	notice    lipgloss.Style
	box       lipgloss.Style
	sidebar   lipgloss.Style
	sidebarOn lipgloss.Style

	levels map[model.Level]lipgloss.Color
}

var (
	darkPalette = palette{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1),

		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1),

		subtitle: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("248")),

		text: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")),

		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")),

		selected: lipgloss.NewStyle().
			Background(lipgloss.Color("25")).
			Foreground(lipgloss.Color("255")),

		normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245")),

		tabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("25")).
			Padding(0, 2),

		tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 2),

		label: lipgloss.NewStyle().
			Width(11).
			Foreground(lipgloss.Color("252")),

		labelOn: lipgloss.NewStyle().
			Width(11).
			Bold(true).
			Foreground(lipgloss.Color("39")),

		errorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),

		banner: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Foreground(lipgloss.Color("210")).
			Padding(0, 1),

		notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),

		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(1, 2),

		sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),

		sidebarOn: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1),

		levels: map[model.Level]lipgloss.Color{
			model.LevelHigh:   lipgloss.Color("35"),
			model.LevelMedium: lipgloss.Color("208"),
			model.LevelLow:    lipgloss.Color("160"),
		},
	}

	lightPalette = palette{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("25")).
			Padding(0, 1),

		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("254")).
			Padding(0, 1),

		subtitle: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("241")),

		text: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")),

		dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),

		selected: lipgloss.NewStyle().
			Background(lipgloss.Color("153")).
			Foreground(lipgloss.Color("232")),

		normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")),

		section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("240")),

		tabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("27")).
			Padding(0, 2),

		tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 2),

		label: lipgloss.NewStyle().
			Width(11).
			Foreground(lipgloss.Color("236")),

		labelOn: lipgloss.NewStyle().
			Width(11).
			Bold(true).
			Foreground(lipgloss.Color("25")),

		errorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("160")),

		banner: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Foreground(lipgloss.Color("124")).
			Padding(0, 1),

		notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("130")),

		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("25")).
			Padding(1, 2),

		sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("250")).
			Padding(0, 1),

		sidebarOn: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("25")).
			Padding(0, 1),

		levels: map[model.Level]lipgloss.Color{
			model.LevelHigh:   lipgloss.Color("28"),
			model.LevelMedium: lipgloss.Color("166"),
			model.LevelLow:    lipgloss.Color("124"),
		},
	}
)

func paletteFor(theme app.Theme) palette {
	if theme == app.ThemeLight {
		return lightPalette
	}
	return darkPalette
}

// badge renders a credibility score on a background coloured by its level.
func (p palette) badge(score model.Score) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(p.levels[score.Level()]).
		Padding(0, 1).
		Render(score.String())
}
