package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/llehouerou/encore/internal/errmsg"
	"github.com/llehouerou/encore/internal/lastfm"
	"github.com/llehouerou/encore/internal/state"
)

const authTimeout = 5 * time.Minute

var lastfmCmd = &cobra.Command{
	Use:   "lastfm",
	Short: "Manage the Last.fm link",
}

var lastfmLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Authorize encore to scrobble to your Last.fm account",
	Args:  cobra.NoArgs,
	RunE:  runLastfmLink,
}

var lastfmUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Forget the Last.fm session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := state.Open()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.DeleteLastfmSession(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Last.fm unlinked")
		return nil
	},
}

var lastfmStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the linked account and pending scrobbles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := state.Open()
		if err != nil {
			return err
		}
		defer store.Close()

		out := cmd.OutOrStdout()
		sess, err := store.GetLastfmSession()
		if err != nil {
			return err
		}
		if sess == nil {
			fmt.Fprintln(out, "Not linked")
			return nil
		}
		pending, err := store.GetPendingScrobbles()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Linked as %s since %s\n", sess.Username, sess.LinkedAt.Format(time.DateOnly))
		fmt.Fprintf(out, "%d scrobble(s) waiting for retry\n", len(pending))
		return nil
	},
}

func init() {
	lastfmCmd.AddCommand(lastfmLinkCmd, lastfmUnlinkCmd, lastfmStatusCmd)
}

func runLastfmLink(cmd *cobra.Command, _ []string) error {
	if !cfg.HasLastfmConfig() {
		return errors.New("set lastfm.api_key and lastfm.api_secret in config.toml first")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
	token, err := client.GetToken()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
	}

	srv, err := lastfm.StartAuthServer()
	if err != nil {
		return err
	}
	defer srv.Shutdown()

	authURL := client.GetAuthURL(token, srv.CallbackURL())
	out := cmd.OutOrStdout()
	if err := lastfm.OpenBrowser(authURL); err != nil {
		logger.Debug().Err(err).Msg("open browser")
	}
	fmt.Fprintf(out, "Authorize encore in your browser:\n  %s\n", authURL)

	cbToken, err := srv.WaitToken(ctx, authTimeout)
	if err != nil {
		return err
	}
	if cbToken == "" {
		return errors.New("authorization not completed")
	}

	username, sessionKey, err := client.GetSession(cbToken)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
	}

	store, err := state.Open()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.SaveLastfmSession(username, sessionKey); err != nil {
		return err
	}
	fmt.Fprintf(out, "Linked as %s\n", username)
	return nil
}
