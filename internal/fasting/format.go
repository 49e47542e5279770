package fasting

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Format constants for one-line display modes.
const (
	FormatTimeRemaining    = "time-remaining"
	FormatEventTime        = "event-time"
	FormatNameAndTime      = "name-and-time"
	FormatNameAndRemaining = "name-and-remaining"
	FormatFull             = "full"
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Event name, e.g. "Iftar"
	Label     string // Display label, e.g. "Suhoor ends"
	Prayer    string // Prayer marking the boundary, e.g. "Maghrib"
	Time      string // Formatted event time, e.g. "18:42" or "6:42 PM"
	Remaining string // Time remaining, e.g. "2h 15m 04s"
	Hours     int
	Minutes   int
	Seconds   int
}

// Time layouts for the two supported clock styles.
const (
	Layout24h = "15:04"
	Layout12h = "3:04 PM"
)

// Layout maps a "12h"/"24h" setting to a time layout. Anything else is 24h.
func Layout(timeFormat string) string {
	if timeFormat == "12h" {
		return Layout12h
	}
	return Layout24h
}

// FormatRemaining renders r as "Xh Ym Zs", dropping leading zero units.
func FormatRemaining(r Remaining) string {
	switch {
	case r.Complete:
		return "0s"
	case r.Hours > 0:
		return fmt.Sprintf("%dh %02dm %02ds", r.Hours, r.Minutes, r.Seconds)
	case r.Minutes > 0:
		return fmt.Sprintf("%dm %02ds", r.Minutes, r.Seconds)
	default:
		return fmt.Sprintf("%ds", r.Seconds)
	}
}

// FormatClock renders r as a fixed-width "HH:MM:SS" countdown.
func FormatClock(r Remaining) string {
	return fmt.Sprintf("%02d:%02d:%02d", r.Hours, r.Minutes, r.Seconds)
}

// FormatOutput formats a target for display according to mode.
// layout is a Go time layout such as "15:04" or "3:04 PM".
//
// If mode contains "{{", it is treated as a custom Go template.
// Example: "{{.Name}} in {{.Remaining}}" -> "Iftar in 2h 15m 04s"
func FormatOutput(t Target, now time.Time, mode, layout string) string {
	r := ComputeRemaining(t, now)
	remaining := FormatRemaining(r)
	timeStr := t.At.Format(layout)

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:      t.Kind.String(),
			Label:     t.Kind.Label(),
			Prayer:    t.Kind.Prayer(),
			Time:      timeStr,
			Remaining: remaining,
			Hours:     r.Hours,
			Minutes:   r.Minutes,
			Seconds:   r.Seconds,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatEventTime:
		return timeStr
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", t.Kind, remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", t.Kind, timeStr, remaining)
	default:
		return fmt.Sprintf("%s %s", t.Kind, timeStr)
	}
}

func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}
	return buf.String()
}
