// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"os"

	"github.com/sikuli-go/sikuli/cmd/sikuli-gateway/cli"
	"github.com/sikuli-go/sikuli/cmd/sikuli-gateway/commands"
	"github.com/sikuli-go/sikuli/lib/process"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], commands.StandardEnv()))
}

// run executes one command and returns the exit status. Commands that
// already printed their outcome return an ExitError, which adds no
// "error:" line.
func run(ctx context.Context, args []string, env commands.Env) int {
	err := commands.Root(env).Execute(ctx, args)
	if err == nil {
		return 0
	}
	var exit *cli.ExitError
	if !errors.As(err, &exit) {
		process.Report(env.Stderr, err)
	}
	return process.ExitCode(err)
}
