// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

// setupCommand writes the configuration file and prepares the session database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml, initialize the database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// serveCommand runs the front web server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the web front end with host canonicalization and theming",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.host:server.port from config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the site in the default browser",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your SkillSwap session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
					&cli.StringFlag{
						Name:  "pin-code",
						Usage: "Postal pin code used to find people nearby",
					},
					&cli.StringFlag{
						Name:  "profile-picture",
						Usage: "Profile picture URL or data URI",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "End the current session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Check whether the stored session is still valid",
				Flags:  jsonFlags(),
				Action: r.AuthStatus,
			},
			{
				Name:  "import",
				Usage: "Import a browser session from a \"Copy as cURL\" command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.AuthImport,
			},
		},
	}
}

func postFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "description",
			Aliases:  []string{"d"},
			Usage:    "What you offer or need",
			Required: required,
		},
		&cli.StringSliceFlag{
			Name:     "category",
			Aliases:  []string{"c"},
			Usage:    "Skill category (repeatable)",
			Required: required,
		},
		&cli.StringFlag{
			Name:     "type",
			Aliases:  []string{"t"},
			Usage:    "Post type: offer or request",
			Required: required,
		},
		&cli.StringFlag{
			Name:  "pin-code",
			Usage: "Postal pin code for the listing",
		},
	}
}

// postsCommand handles listing operations
func postsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "posts",
		Aliases: []string{"post"},
		Usage:   "Browse and manage skill posts",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List community posts, your posts, or another user's posts",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "mine",
						Usage: "List your own posts",
					},
					&cli.Int64Flag{
						Name:  "user",
						Usage: "List posts by user ID",
					},
					&cli.StringFlag{
						Name:  "kind",
						Usage: "Community feed: all, offers or requests",
						Value: "all",
					},
				}, jsonFlags()...),
				Action: r.PostsList,
			},
			{
				Name:   "create",
				Usage:  "Create a post",
				Flags:  append(postFlags(true), jsonFlags()...),
				Action: r.PostsCreate,
			},
			{
				Name:  "update",
				Usage: "Update one of your posts",
				Flags: append(append([]cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Post ID",
						Required: true,
					},
				}, postFlags(false)...), jsonFlags()...),
				Action: r.PostsUpdate,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete one of your posts",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Post ID",
						Required: true,
					},
				},
				Action: r.PostsDelete,
			},
		},
	}
}

// profileCommand handles profile operations
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "View and update profiles",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show your profile, or another user's with --id",
				Flags: append([]cli.Flag{
					&cli.Int64Flag{
						Name:  "id",
						Usage: "User ID",
					},
				}, jsonFlags()...),
				Action: r.ProfileShow,
			},
			{
				Name:   "id",
				Usage:  "Print your user ID",
				Action: r.ProfileID,
			},
			{
				Name:  "picture",
				Usage: "Update your profile picture",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "Image file, uploaded as a data URI",
					},
					&cli.StringFlag{
						Name:  "data",
						Usage: "Picture URL or data URI",
					},
				}, jsonFlags()...),
				Action: r.ProfilePicture,
			},
		},
	}
}

// exportCommand exports feeds to files
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export feeds with author profiles to JSON, CSV, Markdown or text",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "feeds",
				Aliases: []string{"kind"},
				Usage:   "Comma separated feeds: all, offers, requests, mine",
				Value:   "all",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: skillswap_export_{timestamp})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent profile lookups (max 10)",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Backend requests per second",
				Value: 5,
			},
			&cli.BoolFlag{
				Name:  "avatars",
				Usage: "Download profile pictures (markdown only)",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command for the interactive client.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal client",
		Action:  r.TUI,
	}
}
