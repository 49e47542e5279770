package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-compass/internal/display"
	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
	"github.com/smokyabdulrahman/ramadan-compass/internal/shell"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's Suhoor and Iftar times",
		Long:  "Display today's Suhoor-ends (Fajr) and Iftar (Maghrib) times and the time left until the next one.\nThis is the default command.",
		Args:  cobra.NoArgs,
		RunE:  runToday,
	}
}

func runToday(cmd *cobra.Command, args []string) error {
	cfg, sh, closeFn, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	st, err := resolve(cmd.Context(), sh, cfg)
	if err != nil {
		return err
	}

	now := sh.Clock.Now()
	layout := fasting.Layout(cfg.TimeFormat)

	if FlagJSON {
		return printTodayJSON(cmd.OutOrStdout(), st, now, layout)
	}
	printTodayRich(cmd.OutOrStdout(), st, now, layout)
	return nil
}

// printTodayRich renders the colored terminal output for today's boundaries.
func printTodayRich(w io.Writer, st shell.State, now time.Time, layout string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Ramadan Compass"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", locationString(st))
	fmt.Fprintf(w, "  %s\n", display.Dim(now.Format("Monday, 02 Jan 2006")))
	fmt.Fprintln(w)

	for _, line := range strings.Split(display.Boundaries(*st.Timings, st.Next, now, layout), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Time remaining until %s: %s\n",
		display.Accent(st.Next.Kind.String()),
		display.Bold(fasting.FormatRemaining(fasting.ComputeRemaining(*st.Next, now))))
	fmt.Fprintln(w)
}

func locationString(st shell.State) string {
	if st.Location == nil {
		return shell.Location{}.String()
	}
	return st.Location.String()
}

// todayJSON is the JSON output structure for the today command.
type todayJSON struct {
	Location string        `json:"location"`
	Fajr     string        `json:"fajr"`
	Maghrib  string        `json:"maghrib"`
	Next     todayJSONNext `json:"next"`
}

type todayJSONNext struct {
	Event     string `json:"event"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

// printTodayJSON renders structured JSON output.
func printTodayJSON(w io.Writer, st shell.State, now time.Time, layout string) error {
	out := todayJSON{
		Location: locationString(st),
		Fajr:     st.Timings.Fajr,
		Maghrib:  st.Timings.Maghrib,
		Next: todayJSONNext{
			Event:     strings.ToLower(st.Next.Kind.String()),
			Time:      st.Next.At.Format(layout),
			Remaining: fasting.FormatRemaining(fasting.ComputeRemaining(*st.Next, now)),
		},
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
