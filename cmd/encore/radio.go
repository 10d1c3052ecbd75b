package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/encore/internal/radio"
	"github.com/llehouerou/encore/internal/state"
)

var radioLast bool

var radioCmd = &cobra.Command{
	Use:   "radio [STATION]",
	Short: "List radio stations or play one",
	Long: `Without arguments, list the stations known to the server.

With a station ID or name, tune in until interrupted. --last replays the
station that was playing most recently.

Examples:
  encore radio
  encore radio fip
  encore radio --last`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRadio,
}

func init() {
	radioCmd.Flags().BoolVar(&radioLast, "last", false, "Play the last station")
}

func runRadio(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := startEngine(ctx, false)
	if err != nil {
		return err
	}
	defer e.Close()

	if len(args) == 0 && !radioLast {
		stations, err := fetchStations(ctx, e)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME")
		for _, st := range stations {
			fmt.Fprintf(tw, "%s\t%s\n", st.ID, st.Name)
		}
		return tw.Flush()
	}

	var st radio.Station
	if radioLast {
		last, err := e.store.GetLastStation()
		if err != nil {
			return err
		}
		if last == nil {
			return errors.New("no station played yet")
		}
		st = stationFromState(*last)
	} else {
		stations, err := fetchStations(ctx, e)
		if err != nil {
			return err
		}
		found, ok := findStation(stations, args[0])
		if !ok {
			return fmt.Errorf("unknown station %q", args[0])
		}
		st = found
	}

	sub := e.svc.Subscribe()
	if err := e.svc.PlayStation(st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Tuned in to %s\n", st.Name)
	return follow(ctx, e.svc, sub, cmd.OutOrStdout(), false)
}

func fetchStations(ctx context.Context, e *engine) ([]radio.Station, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.client.Stations(ctx)
}

// findStation matches an exact ID first, then a case-insensitive name.
func findStation(stations []radio.Station, query string) (radio.Station, bool) {
	for _, st := range stations {
		if st.ID == query {
			return st, true
		}
	}
	for _, st := range stations {
		if strings.EqualFold(st.Name, query) {
			return st, true
		}
	}
	return radio.Station{}, false
}

func stationFromState(s state.StationState) radio.Station {
	return radio.Station{ID: s.ID, Name: s.Name, URL: s.URL}
}
