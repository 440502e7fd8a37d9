// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// rootFlags are inherited by every subcommand.
func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   defaultConfigPath,
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

func loopFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "on-not-found",
			Usage: "What to do when a song can't be identified (stop or skip)",
		},
		&cli.StringFlag{
			Name:  "non-track",
			Usage: "How to treat episodes and ads (wait or resolve)",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "Do not record plays in the history database",
		},
	}
}

// syncCommand runs the lyrics loop until interrupted
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "sync",
		Usage:  "Print lyrics for whatever is playing, following along track by track",
		Flags:  loopFlags(),
		Action: r.Sync,
	}
}

// onceCommand runs a single cycle
func onceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "once",
		Usage:  "Print lyrics for the current track and exit",
		Flags:  loopFlags(),
		Action: r.Once,
	}
}

// searchCommand runs the resolver against the catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Find the catalog entry for a title and artist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "title"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "artist",
				Aliases:  []string{"a"},
				Usage:    "Artist credited on the track",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// lyricsCommand fetches and prints lyrics for a catalog API path
func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lyrics",
		Usage: "Print the lyrics for a catalog API path such as /songs/378195",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "api-path"},
		},
		Action: r.Lyrics,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "spotify",
				Usage: "Authorize with Spotify using OAuth2 and save the access token",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser callback",
						Value: authTimeout,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthSpotify,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write an example configuration file",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the history database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// historyCommand prints recorded plays
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recently played tracks and how they were resolved",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of plays to show",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "Only show plays with this status (resolved, no_lyrics, not_found, skipped)",
			},
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Only show plays by this artist",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, json, csv)",
				Value:   "text",
			},
		},
		Action: r.History,
	}
}
