package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"swiftcab/internal/modules/extract"
)

var extractCmd = &cobra.Command{
	Use:   "extract <utterance>",
	Short: "Show what the assistant would pick out of an opening message",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfgFile)
		if err != nil {
			return err
		}
		defer a.Close()

		utterance := strings.Join(args, " ")
		src, dst := a.extractor.Extract(cmd.Context(), utterance)
		hints := extract.ScanHints(utterance)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "source:        %s\n", orDash(src))
		fmt.Fprintf(out, "destination:   %s\n", orDash(dst))
		fmt.Fprintf(out, "vehicle_class: %s\n", orDash(string(hints.VehicleClass)))
		fmt.Fprintf(out, "trip_type:     %s\n", orDash(string(hints.TripType)))
		return nil
	},
}

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the AI extraction calls left this month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfgFile)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.quota == nil {
			return errors.New("quota tracking needs SWIFTCAB_DB_DSN")
		}
		left, err := a.quota.Remaining(cmd.Context(), a.cfg.AI.User)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d extraction calls left this month\n", a.cfg.AI.User, left)
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
