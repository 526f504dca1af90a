// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/sikuli-go/sikuli/cmd/sikuli-gateway/cli"
	"github.com/sikuli-go/sikuli/lib/version"
)

// Env is where commands write and whether a person is watching.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer

	// Interactive enables the no-argument menu.
	Interactive bool

	// Color enables styled output on Stdout.
	Color bool
}

// StandardEnv writes to the process's stdout and stderr and detects
// terminals. Color also honors NO_COLOR and CLICOLOR=0.
func StandardEnv() Env {
	stdoutTerminal := cli.IsTerminal(os.Stdout)
	return Env{
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Interactive: stdoutTerminal && cli.IsTerminal(os.Stdin),
		Color:       stdoutTerminal && !termenv.EnvNoColor(),
	}
}

func (e Env) styles() styles { return newStyles(e.Stdout, e.Color) }

// Root builds the sikuli-gateway command tree.
func Root(env Env) *cli.Command {
	var params targetParams
	root := &cli.Command{
		Name: "sikuli-gateway",
		Description: `Manage the SikuliX gateway: the Java process that performs screen
matching and input for sikuli-go programs.

Run without a command on a terminal for an interactive menu.`,
		HelpOutput: env.Stderr,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("sikuli-gateway", &params)
		},
		Subcommands: []*cli.Command{
			startCommand(env),
			stopCommand(env),
			statusCommand(env),
			testCommand(env),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string) error {
					if err := noArgs(args); err != nil {
						return err
					}
					fmt.Fprintf(env.Stdout, "sikuli-gateway %s\n", version.Full())
					return nil
				},
			},
		},
	}
	root.Run = func(ctx context.Context, args []string) error {
		if len(args) > 0 || !env.Interactive {
			root.PrintHelp(env.Stderr)
			return cli.Validation("a command is required")
		}
		return runMenu(ctx, env, &params)
	}
	return root
}
