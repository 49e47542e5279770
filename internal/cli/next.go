package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
)

var flagFormat string

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next Suhoor or Iftar with countdown",
		Long:  "Print the next boundary on one line. Suited to status bars such as tmux.",
		Args:  cobra.NoArgs,
		RunE:  runNext,
	}

	cmd.Flags().StringVar(&flagFormat, "format", fasting.FormatFull, "Display format: time-remaining, event-time, name-and-time, name-and-remaining, full, or a custom Go template")

	return cmd
}

func runNext(cmd *cobra.Command, args []string) error {
	cfg, sh, closeFn, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	st, err := resolve(cmd.Context(), sh, cfg)
	if err != nil {
		return err
	}

	output := fasting.FormatOutput(*st.Next, sh.Clock.Now(), flagFormat, fasting.Layout(cfg.TimeFormat))
	fmt.Fprint(cmd.OutOrStdout(), output)
	return nil
}
