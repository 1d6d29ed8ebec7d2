package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode <address>",
	Short: "Resolve one address through the configured geocoder",
	Long:  "Runs a single lookup through the same throttled, retried client the enrich command uses. Useful for checking credentials and address formats.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("geocode"); err != nil {
			return err
		}
		gc, err := newGeocoder(cfg.Geocode)
		if err != nil {
			return err
		}

		address := strings.Join(args, " ")
		res, err := gc.Geocode(cmd.Context(), address)
		if err != nil {
			return eris.Wrapf(err, "geocode %q", address)
		}
		if !res.Matched {
			return eris.Errorf("geocode %q: no match", address)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}
