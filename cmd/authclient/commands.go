package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kbukum/authclient/httpclient"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and store the session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Account username",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password",
				EnvVars: []string{"AUTHCLIENT_PASSWORD"},
			},
		},
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, cl *client) error {
				auth, err := cl.service.Login(ctx, c.String("username"), c.String("password"))
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(c.App.Writer, "Logged in as %s (%s %s)\n", auth.Username, auth.FirstName, auth.LastName)
				return nil
			})
		},
	}
}

func meCommand() *cli.Command {
	return &cli.Command{
		Name:  "me",
		Usage: "Show the signed-in user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: text, json",
				Value:   "text",
			},
		},
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, cl *client) error {
				me, err := cl.service.Me(ctx)
				if err != nil {
					return describe(err)
				}
				if c.String("output") == "json" {
					return writeJSON(c.App.Writer, me)
				}
				w := c.App.Writer
				fmt.Fprintf(w, "ID:       %d\n", me.ID)
				fmt.Fprintf(w, "Username: %s\n", me.Username)
				fmt.Fprintf(w, "Name:     %s %s\n", me.FirstName, me.LastName)
				fmt.Fprintf(w, "Email:    %s\n", me.Email)
				return nil
			})
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Remove the stored session",
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, cl *client) error {
				if err := cl.service.Logout(ctx); err != nil {
					return describe(err)
				}
				fmt.Fprintln(c.App.Writer, "Logged out")
				return nil
			})
		},
	}
}

func sessionCommand() *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Inspect or refresh the stored session",
		Action: func(c *cli.Context) error {
			return withClient(c, func(ctx context.Context, cl *client) error {
				current, err := cl.service.CurrentSession(ctx)
				if err != nil {
					return describe(err)
				}
				if current == nil {
					fmt.Fprintln(c.App.Writer, "No session stored")
					return nil
				}
				printSession(c.App.Writer, cl, current.AccessToken, current.ExpiresAt)
				return nil
			})
		},
		Subcommands: []*cli.Command{
			{
				Name:  "refresh",
				Usage: "Exchange the refresh token for a new session now",
				Action: func(c *cli.Context) error {
					return withClient(c, func(ctx context.Context, cl *client) error {
						current, err := cl.sessions.Current(ctx)
						if err != nil {
							return describe(err)
						}
						if current == nil {
							return describe(httpclient.NewUnauthorized(nil))
						}
						next, err := cl.sessions.Refresh(ctx, *current)
						if err != nil {
							return describe(err)
						}
						printSession(c.App.Writer, cl, next.AccessToken, next.ExpiresAt)
						return nil
					})
				},
			},
		},
	}
}

func printSession(w io.Writer, cl *client, accessToken string, expiresAt time.Time) {
	state := "valid"
	if !expiresAt.After(time.Now()) {
		state = "expired"
	}
	fmt.Fprintf(w, "Credential:   %s\n", cl.cfg.Session.CredentialID)
	fmt.Fprintf(w, "Access token: %s\n", redact(accessToken))
	fmt.Fprintf(w, "Expires at:   %s (%s)\n", expiresAt.Local().Format(time.RFC3339), state)
}

func redact(token string) string {
	if len(token) <= 12 {
		return "***"
	}
	return token[:12] + "..."
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe turns pipeline errors into messages for the terminal.
func describe(err error) error {
	e, ok := httpclient.AsError(err)
	if !ok {
		return err
	}
	switch e.Kind {
	case httpclient.KindUnauthorized:
		return cli.Exit("not signed in or the session could not be refreshed; run `authclient login`", 2)
	case httpclient.KindUnacceptableStatusCode:
		return cli.Exit(fmt.Sprintf("server answered %d: %s", e.StatusCode, e.Body), 1)
	default:
		return err
	}
}
