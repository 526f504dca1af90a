// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/sikuli-go/sikuli/cmd/sikuli-gateway/cli"
)

type testParams struct {
	targetParams
	cli.JSONOutput
}

func testCommand(env Env) *cli.Command {
	var params testParams
	return &cli.Command{
		Name:    "test",
		Summary: "Check whether the gateway port accepts connections",
		Description: `Open and close one TCP connection to the gateway address. Exit status
is 0 when the connection succeeds and 1 otherwise. Anything listening
on the port counts, including a gateway this tool did not start.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("test", &params)
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

			result := manager.TestConnection(ctx)
			done, err := params.EmitJSON(env.Stdout, newProbeReport(result))
			if err != nil {
				return failure(err)
			}
			if !done {
				writeProbe(env.Stdout, env.styles(), result)
			}
			if !result.Reachable {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
