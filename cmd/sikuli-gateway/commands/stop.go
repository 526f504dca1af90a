// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/sikuli-go/sikuli/cmd/sikuli-gateway/cli"
	"github.com/sikuli-go/sikuli/lib/gateway"
)

func stopCommand(env Env) *cli.Command {
	var params targetParams
	return &cli.Command{
		Name:    "stop",
		Summary: "Stop the gateway",
		Description: `Stop the gateway on the selected port: ask it to exit, then kill it
after the shutdown timeout. Stopping a gateway that is not running
succeeds. Exit status is 0 on success and 1 on error.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("stop", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if err := noArgs(args); err != nil {
				return exitOne(err)
			}
			logger := cli.NewCommandLogger(params.Level())
			manager, err := params.openManager(ctx, nil, logger)
			if err != nil {
				return exitOne(err)
			}

			before := manager.Status()
			if err := manager.Stop(ctx); err != nil {
				return failure(err)
			}
			if before.PID == 0 {
				fmt.Fprintf(env.Stdout, "gateway on port %d was not running\n", before.Port)
				return nil
			}
			fmt.Fprintf(env.Stdout, "gateway %s on port %d (pid %d)\n",
				env.styles().state(gateway.StateStopped), before.Port, before.PID)
			return nil
		},
	}
}

// exitOne turns a validation error into a plain failure for commands
// whose only failure status is 1.
func exitOne(err error) error {
	var toolErr *cli.ToolError
	if errors.As(err, &toolErr) && toolErr.Category == cli.CategoryValidation {
		return &cli.ToolError{Category: cli.CategoryInternal, Err: toolErr.Err, Hint: toolErr.Hint}
	}
	return failure(err)
}
