// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles local setup of the config file and token database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the latest migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your account and session",
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username (at least 3 characters)"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password (at least 8 characters)"},
					&cli.StringFlag{Name: "email", Usage: "Email address"},
					&cli.StringFlag{Name: "full-name", Usage: "Full name"},
					&cli.StringFlag{Name: "role", Usage: "Account role (user or admin)", Value: "user"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "login",
				Usage: "Sign in and store the access token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored access token",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the current session and token expiry",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.AuthStatus,
			},
			{
				Name:  "profile",
				Usage: "Show the signed-in user's profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.AuthProfile,
			},
			{
				Name:  "change-password",
				Usage: "Change the signed-in user's password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "current", Usage: "Current password"},
					&cli.StringFlag{Name: "new", Usage: "New password (at least 8 characters)"},
				},
				Action: r.AuthChangePassword,
			},
			{
				Name:  "reset-password",
				Usage: "Request a temporary password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Email address of the account"},
				},
				Action: r.AuthResetPassword,
			},
			{
				Name:  "delete-account",
				Usage: "Permanently delete the signed-in account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "confirm", Usage: "Type DELETE to skip the prompt"},
				},
				Action: r.AuthDeleteAccount,
			},
		},
	}
}

// importCommand uploads review files for analysis
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Upload CSV or JSON review files and show the sentiment breakdown",
		ArgsUsage: "<file> [file...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown, csv, json",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Write one report per file plus a manifest to this directory",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Uploads per second",
				Value: 5,
			},
		},
		Action: r.Import,
	}
}

// apiCommand handles direct backend calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the backend API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET with the stored token, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// sandboxCommand runs the local development backend.
func sandboxCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sandbox",
		Usage: "Run an in-memory backend for local development",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Listen host (defaults to sandbox.host)"},
			&cli.IntFlag{Name: "port", Usage: "Listen port (defaults to sandbox.port)"},
			&cli.StringFlag{Name: "secret", Usage: "Token signing secret (defaults to sandbox.secret)"},
		},
		Action: r.Sandbox,
	}
}

// tuiCommand returns the top-level TUI command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive import dashboard",
		Action:  r.TUI,
	}
}
