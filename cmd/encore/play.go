package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/llehouerou/encore/internal/playlist"
	"github.com/llehouerou/encore/internal/session"
)

var (
	playStart   int
	playShuffle bool
	playRepeat  string
)

var playCmd = &cobra.Command{
	Use:   "play FILE",
	Short: "Play a queue file without the interactive player",
	Long: `Play the tracks listed in a JSON queue file and exit when the queue ends.

The file is an array of tracks as exported by the server:
  [{"id": "t1", "title": "Song", "artist": "Artist", "duration": 215}]

Examples:
  encore play evening.json
  encore play evening.json --shuffle --repeat all`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&playStart, "start", 0, "Index of the first track")
	playCmd.Flags().BoolVar(&playShuffle, "shuffle", false, "Shuffle the queue")
	playCmd.Flags().StringVar(&playRepeat, "repeat", "off", "Repeat mode: off, all or one")
}

func runPlay(cmd *cobra.Command, args []string) error {
	tracks, err := playlist.LoadFile(args[0])
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%s: no tracks", args[0])
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := startEngine(ctx, false)
	if err != nil {
		return err
	}
	defer e.Close()

	sub := e.svc.Subscribe()
	e.svc.SetRepeatMode(playlist.ParseRepeatMode(playRepeat))
	e.svc.SetShuffle(playShuffle)
	if err := e.svc.SetQueue(tracks, playStart, session.Source{ID: args[0], Type: "playlist"}); err != nil {
		return err
	}

	logger.Info().Str("file", args[0]).Int("tracks", len(tracks)).Msg("playing queue file")
	return follow(ctx, e.svc, sub, cmd.OutOrStdout(), true)
}
