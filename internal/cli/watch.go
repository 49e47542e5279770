package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-compass/internal/countdown"
	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
	"github.com/smokyabdulrahman/ramadan-compass/internal/shell"
	"github.com/smokyabdulrahman/ramadan-compass/internal/tui"
)

var flagPlain bool

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live countdown to the next Suhoor or Iftar",
		Long:  "Open a full-screen countdown. With --plain, print one line per second instead and keep rolling over to the next event until interrupted.",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}

	cmd.Flags().BoolVar(&flagPlain, "plain", false, "Print one line per second instead of the full-screen view")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, sh, closeFn, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := cmd.Context()
	layout := fasting.Layout(cfg.TimeFormat)

	if !flagPlain {
		opts := tui.Options{
			City:    cfg.City,
			Country: cfg.Country,
			Layout:  layout,
		}
		if cfg.HasCoordinates() {
			opts.Latitude, opts.Longitude, opts.HasCoords = *cfg.Latitude, *cfg.Longitude, true
		}
		return tui.Run(ctx, sh, opts)
	}

	st, err := resolve(ctx, sh, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", locationString(st))
	return watchPlain(ctx, cmd.OutOrStdout(), sh, st, layout)
}

// watchPlain counts down to st.Next, moving on to the following event each
// time one is reached, until ctx is cancelled.
func watchPlain(ctx context.Context, w io.Writer, sh *shell.Shell, st shell.State, layout string) error {
	for st.Next != nil {
		target := *st.Next
		reached := make(chan fasting.Target, 1)

		cd := countdown.New(target, sh.Clock,
			func(r fasting.Remaining) {
				fmt.Fprintf(w, "%s at %s  %s\n", target.Kind.Label(), target.At.Format(layout), fasting.FormatClock(r))
			},
			func(t fasting.Target) { reached <- t },
		)
		cd.Start()

		select {
		case t := <-reached:
			cd.Stop()
			logger.Debug().Str("event", t.Kind.String()).Msg("boundary reached")
			st = sh.Complete(ctx, st, t)
			if st.Next != nil && !st.Next.At.After(t.At) {
				return fmt.Errorf("no event after %s", t.Kind)
			}
		case <-ctx.Done():
			cd.Stop()
			return nil
		}
	}
	return fmt.Errorf("no upcoming event")
}
