// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/sikuli-go/sikuli/cmd/sikuli-gateway/cli"
	"github.com/sikuli-go/sikuli/lib/gateway"
)

type startParams struct {
	targetParams
	launchParams
	Foreground bool `json:"-" flag:"foreground,f" desc:"stay attached and stop the gateway on Ctrl-C"`
}

func startCommand(env Env) *cli.Command {
	var params startParams
	return &cli.Command{
		Name:    "start",
		Summary: "Start the gateway and wait until it accepts connections",
		Usage:   "sikuli-gateway start [port] [flags]",
		Description: `Start the SikuliX gateway and wait until it accepts connections.

A gateway already running on the port is left alone. Exit status is 0
when the gateway is ready, 1 when it failed to start, and 2 when the
configuration is invalid.`,
		Examples: []cli.Example{
			{Description: "Start on the default port", Command: "sikuli-gateway start"},
			{Description: "Start on port 25400 with a specific jar", Command: "sikuli-gateway start 25400 --jar ~/sikulixide-2.0.5.jar"},
			{Description: "Run until interrupted", Command: "sikuli-gateway start --foreground"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("start", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			port, err := parsePortArg(args, params.Port)
			if err != nil {
				return err
			}
			params.Port = port

			logger := cli.NewCommandLogger(params.Level())
			manager, err := params.openManager(ctx, &params.launchParams, logger)
			if err != nil {
				return err
			}

			handle, err := manager.Start(ctx)
			if err != nil {
				return startFailure(err)
			}
			fmt.Fprintf(env.Stdout, "gateway %s on %s (pid %d)\n",
				env.styles().state(gateway.StateReady), handle.Endpoint.Address(), handle.PID)

			if !params.Foreground {
				return nil
			}
			return runForeground(ctx, env, manager)
		},
	}
}

// startFailure attaches a category and, where there is an obvious next
// step, a hint.
func startFailure(err error) error {
	var configErr *gateway.ConfigError
	var timeoutErr *gateway.StartTimeoutError
	switch {
	case errors.As(err, &configErr):
		return &cli.ToolError{Category: cli.CategoryValidation, Err: err}
	case errors.Is(err, gateway.ErrJarNotFound):
		return (&cli.ToolError{Category: cli.CategoryInternal, Err: err}).
			WithHint("Set SIKULIX_JAR, pass --jar, or put the SikuliX jar in one of jar_search_dirs.")
	case errors.Is(err, gateway.ErrPortInUse):
		return (&cli.ToolError{Category: cli.CategoryInternal, Err: err}).
			WithHint("Another program holds the port. Run 'sikuli-gateway test' to check it, or choose another port.")
	case errors.As(err, &timeoutErr):
		return (&cli.ToolError{Category: cli.CategoryTransient, Err: err}).
			WithHint("Raise --startup-timeout, or check the backend's output with --log-file.")
	}
	return failure(err)
}

// runForeground keeps the gateway running until the context ends (the
// user interrupts) or the backend dies.
func runForeground(ctx context.Context, env Env, manager *gateway.Manager) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(env.Stdout, "press Ctrl-C to stop")
	ticker := time.NewTicker(manager.Config().PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(env.Stdout, "stopping gateway")
			if err := manager.Stop(context.WithoutCancel(ctx)); err != nil {
				return failure(err)
			}
			fmt.Fprintf(env.Stdout, "gateway %s\n", env.styles().state(gateway.StateStopped))
			return nil
		case <-ticker.C:
			status := manager.Status()
			if status.State != gateway.StateReady {
				return cli.Internal("gateway is %s: %s", status.State, status.LastError)
			}
		}
	}
}
