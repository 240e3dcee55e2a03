package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/naturepower/internal/ui/theme"
)

const titleFull = ` _  _   _ _____ _   _ ___ ___   ___  _____      _____ ___
| \| | /_\_   _| | | | _ \ __| | _ \/ _ \ \    / / __| _ \
| .  |/ _ \| | | |_| |   / _|  |  _/ (_) \ \/\/ /| _||   /
|_|\_/_/ \_\_|  \___/|_|_\___| |_|  \___/ \_/\_/ |___|_|_\`

const titleCompact = "N A T U R E   P O W E R"

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	art := titleFull
	if compact || cw < lipgloss.Width(titleFull) {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

type dashboard struct {
	Completed int
	Total     int
	XP        int
	Badges    int
	Next      string
}

func renderStatsBar(d dashboard, cw int, compact bool) string {
	lessonStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	xpStyle := lipgloss.NewStyle().Foreground(theme.Sun).Bold(true)
	badgeStyle := lipgloss.NewStyle().Foreground(theme.Sky).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			lessonStyle.Render(fmt.Sprintf("📚%d/%d", d.Completed, d.Total)),
			xpStyle.Render(fmt.Sprintf("⚡%d", d.XP)),
			badgeStyle.Render(fmt.Sprintf("🏅%d", d.Badges)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			lessonStyle.Render(fmt.Sprintf("📚 %d/%d LESSONS", d.Completed, d.Total)),
			xpStyle.Render(fmt.Sprintf("⚡ %d XP", d.XP)),
			badgeStyle.Render(fmt.Sprintf("🏅 %d BADGES", d.Badges)),
		)
	}
	if d.Next != "" && !compact {
		stats += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("Next badge: "+d.Next)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

const buttonWidth = 22

func renderMenu(items []string, selected, cw int, compact bool) string {
	var rows []string
	for i, label := range items {
		switch {
		case compact && i == selected:
			rows = append(rows, lipgloss.NewStyle().
				Foreground(theme.BgDark).Background(theme.Sun).Bold(true).
				Render(" ▸ "+label+" "))
		case compact:
			rows = append(rows, lipgloss.NewStyle().Foreground(theme.Text).Render("   "+label))
		case i == selected:
			rows = append(rows, lipgloss.NewStyle().
				Width(buttonWidth).Align(lipgloss.Center).Bold(true).
				Foreground(theme.BgDark).Background(theme.Sun).
				Border(lipgloss.RoundedBorder()).BorderForeground(theme.Sun).
				Padding(0, 1).
				Render("▸ "+label))
		default:
			rows = append(rows, lipgloss.NewStyle().
				Width(buttonWidth).Align(lipgloss.Center).
				Foreground(theme.Text).
				Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border).
				Padding(0, 1).
				Render(label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}
