// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/sikuli-go/sikuli/cmd/sikuli-gateway/cli"
	"github.com/sikuli-go/sikuli/lib/config"
	"github.com/sikuli-go/sikuli/lib/gateway"
)

// targetParams select which gateway a command talks to. Every command
// takes them.
type targetParams struct {
	cli.LogLevel
	Config   string `json:"-" flag:"config,c" desc:"config file, YAML or JSON with comments (default $SIKULI_CONFIG)"`
	Port     int    `json:"-" flag:"port,p" desc:"gateway port (default 25333)"`
	Host     string `json:"-" flag:"host" desc:"address the gateway listens on (default 127.0.0.1)"`
	StateDir string `json:"-" flag:"state-dir" desc:"directory holding gateway state records"`
}

// launchParams control how start runs the backend.
type launchParams struct {
	Jar             string        `json:"-" flag:"jar" desc:"SikuliX jar (default $SIKULIX_JAR, then a search)"`
	Java            string        `json:"-" flag:"java" desc:"java executable (default $JAVA_HOME/bin/java, then java)"`
	StartupTimeout  time.Duration `json:"-" flag:"startup-timeout" desc:"how long to wait for the gateway to accept connections"`
	ShutdownTimeout time.Duration `json:"-" flag:"shutdown-timeout" desc:"how long to wait after asking the gateway to exit before killing it"`
	PollInterval    time.Duration `json:"-" flag:"poll-interval" desc:"pause between connection probes while starting"`
	LogFile         string        `json:"-" flag:"log-file" desc:"file receiving the backend's output"`
}

// load reads the configuration and applies the flags on top. Zero
// flag values mean "not given".
func (p *targetParams) load(launch *launchParams) (*config.Config, error) {
	loaded, err := config.Load(p.Config)
	if err != nil {
		return nil, err
	}
	overlay := func(target *string, value string) {
		if value != "" {
			*target = value
		}
	}
	if p.Port != 0 {
		loaded.Gateway.Port = p.Port
	}
	overlay(&loaded.Gateway.Host, p.Host)
	overlay(&loaded.Gateway.StateDir, p.StateDir)

	if launch != nil {
		duration := func(target *string, value time.Duration) {
			if value != 0 {
				*target = value.String()
			}
		}
		overlay(&loaded.Gateway.Jar, launch.Jar)
		overlay(&loaded.Gateway.Java, launch.Java)
		overlay(&loaded.Gateway.LogFile, launch.LogFile)
		duration(&loaded.Gateway.StartupTimeout, launch.StartupTimeout)
		duration(&loaded.Gateway.ShutdownTimeout, launch.ShutdownTimeout)
		duration(&loaded.Gateway.PollInterval, launch.PollInterval)
	}
	return loaded, nil
}

// openManager builds the manager for the selected gateway and picks up
// a gateway recorded by an earlier invocation. Configuration problems
// come back as validation errors.
func (p *targetParams) openManager(ctx context.Context, launch *launchParams, logger *slog.Logger) (*gateway.Manager, error) {
	loaded, err := p.load(launch)
	if err != nil {
		return nil, &cli.ToolError{Category: cli.CategoryValidation, Err: err}
	}
	gatewayConfig, err := loaded.GatewayConfig()
	if err != nil {
		return nil, &cli.ToolError{Category: cli.CategoryValidation, Err: err}
	}
	manager, err := gateway.NewManager(gatewayConfig, gateway.Options{Logger: logger})
	if err != nil {
		return nil, &cli.ToolError{Category: cli.CategoryValidation, Err: err}
	}
	if err := manager.Reattach(ctx); err != nil {
		logger.Warn("could not check for a running gateway", "error", err)
	}
	return manager, nil
}

// parsePortArg reads the optional positional port of start. It must
// agree with --port when both are given.
func parsePortArg(args []string, flagPort int) (int, error) {
	switch len(args) {
	case 0:
		return flagPort, nil
	case 1:
	default:
		return 0, cli.Validation("expected at most one argument (the port), got %d", len(args))
	}
	port, err := strconv.Atoi(args[0])
	if err != nil || port < 1 || port > 65535 {
		return 0, cli.Validation("%q is not a port number", args[0])
	}
	if flagPort != 0 && flagPort != port {
		return 0, cli.Validation("port %d conflicts with --port %d", port, flagPort)
	}
	return port, nil
}

// noArgs rejects positional arguments for commands that take none.
func noArgs(args []string) error {
	if len(args) > 0 {
		return cli.Validation("unexpected argument %q", args[0])
	}
	return nil
}

// failure wraps err as a ToolError that exits 1, keeping the exit code
// of errors that already carry one.
func failure(err error) error {
	var toolErr *cli.ToolError
	if errors.As(err, &toolErr) {
		return err
	}
	return &cli.ToolError{Category: cli.CategoryInternal, Err: err}
}
