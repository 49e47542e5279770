package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
)

func (a App) View() string {
	header := titleStyle.Render("☪ RAMADAN COMPASS")

	var content string
	switch {
	case a.formActive && a.form != nil:
		content = panelStyle.Render(a.form.View())
	case a.state.Loading:
		content = a.spinner.View() + " " + subtitleStyle.Render("Detecting location and calculating times...")
	case a.state.Idle():
		content = a.idleView()
	default:
		content = a.countdownView()
	}

	footer := footerStyle.Render(a.help.View(keys))

	body := lipgloss.JoinVertical(lipgloss.Center, header, "", content, "", footer)
	if a.width == 0 {
		return body
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, body)
}

func (a App) idleView() string {
	msg := "Enter your city or use device location to get accurate prayer times."
	if a.state.Err != "" {
		msg = errorStyle.Render(a.state.Err)
	} else {
		msg = subtitleStyle.Render(msg)
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		eventStyle.Render("Set Your Location"),
		"",
		msg,
		"",
		mutedStyle.Render("s: search city   l: use device location"),
	))
}

func (a App) countdownView() string {
	rows := []string{}
	if a.state.Location != nil {
		rows = append(rows, locationStyle.Render("⌖ "+a.state.Location.String()), "")
	}

	if next := a.state.Next; next != nil {
		rows = append(rows,
			subtitleStyle.Render("Time remaining until ")+eventStyle.Render(next.Kind.String()),
			"",
			renderClock(a.remaining),
			"",
		)
	}

	active := fasting.Kind(-1)
	if a.state.Next != nil {
		active = a.state.Next.Kind
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		a.card(fasting.Suhoor, a.state.Timings.Fajr, active == fasting.Suhoor),
		" ",
		a.card(fasting.Iftar, a.state.Timings.Maghrib, active == fasting.Iftar),
	)
	rows = append(rows, cards)

	if a.state.Err != "" {
		rows = append(rows, "", errorStyle.Render(a.state.Err))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func renderClock(r fasting.Remaining) string {
	unit := func(v int, label string) string {
		return lipgloss.JoinVertical(lipgloss.Center,
			digitStyle.Render(fmt.Sprintf("%02d", v)),
			unitLabelStyle.Render(label),
		)
	}
	sep := separatorStyle.Render(":")
	return lipgloss.JoinHorizontal(lipgloss.Top,
		unit(r.Hours, "HOURS"), sep,
		unit(r.Minutes, "MINUTES"), sep,
		unit(r.Seconds, "SECONDS"),
	)
}

func (a App) card(kind fasting.Kind, raw string, active bool) string {
	style := cardStyle
	if active {
		style = activeCardStyle
	}

	shown := raw
	if at, err := fasting.ResolveToday(raw, a.now()); err == nil {
		shown = at.Format(a.opts.Layout)
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTimeStyle.Render(kind.Label()),
		mutedStyle.Render(kind.Prayer()+" time"),
		cardTimeStyle.Render(shown),
	))
}
