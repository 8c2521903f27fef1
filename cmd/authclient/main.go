// Command authclient signs in to the API, keeps the session in a
// credential store and calls authenticated endpoints, refreshing the
// session when needed.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kbukum/authclient/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "authclient",
		Usage:   "Authenticated REST client",
		Version: version.Get().String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config.yml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file",
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "API base URL (overrides http.base_url)",
				EnvVars: []string{"AUTHCLIENT_BASE_URL"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Log requests as cURL commands and print the startup summary",
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
			meCommand(),
			logoutCommand(),
			sessionCommand(),
		},
	}
}
