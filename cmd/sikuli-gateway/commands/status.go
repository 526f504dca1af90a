// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/sikuli-go/sikuli/cmd/sikuli-gateway/cli"
)

type statusParams struct {
	targetParams
	cli.JSONOutput
}

func statusCommand(env Env) *cli.Command {
	var params statusParams
	return &cli.Command{
		Name:    "status",
		Summary: "Show the gateway state, port and PID",
		Description: `Show the state of the gateway on the selected port. The exit status
is always 0; scripts read the state from the output (use --json).`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("status", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			logger := cli.NewCommandLogger(params.Level())
			manager, err := params.openManager(ctx, nil, logger)
			if err != nil {
				fmt.Fprintf(env.Stderr, "status unavailable: %v\n", err)
				return nil
			}
			if len(args) > 0 {
				logger.Warn("ignoring arguments", "args", args)
			}

			status := manager.Status()
			if done, err := params.EmitJSON(env.Stdout, status); done {
				if err != nil {
					fmt.Fprintf(env.Stderr, "writing status: %v\n", err)
				}
				return nil
			}
			writeStatus(env.Stdout, env.styles(), status)
			return nil
		},
	}
}
