package main

import (
	"context"
	"fmt"
	"io"

	"github.com/llehouerou/encore/internal/errmsg"
	"github.com/llehouerou/encore/internal/icons"
	"github.com/llehouerou/encore/internal/playback"
)

// follow prints what the player does until ctx ends. With untilStopped it
// also returns once playback stops after having started.
func follow(ctx context.Context, svc playback.Service, sub *playback.Subscription, w io.Writer, untilStopped bool) error {
	started := svc.State() == playback.StatePlaying
	var lastTitle string
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Done:
			return nil
		case sc := <-sub.StateChanged:
			if sc.Current == playback.StatePlaying {
				started = true
			}
			if untilStopped && started && sc.Current == playback.StateStopped {
				return nil
			}
		case tc := <-sub.TrackChanged:
			if tc.Current != nil {
				fmt.Fprintln(w, icons.FormatTrack(tc.Current.Title+" - "+tc.Current.Artist))
			}
		case rc := <-sub.RadioChanged:
			if rc.Status.Title != "" && rc.Status.Title != lastTitle {
				lastTitle = rc.Status.Title
				fmt.Fprintln(w, icons.FormatStation(rc.Status.Station.Name+": "+rc.Status.Title))
			}
		case e := <-sub.Error:
			fmt.Fprintln(w, errmsg.Format(errmsg.ForPlayback(e.Operation), e.Err))
		}
	}
}
