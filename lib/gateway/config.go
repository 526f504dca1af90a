// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultPort is the port py4j.GatewayServer listens on when none is
// given.
const DefaultPort = 25333

// ConnectionProbeTimeout bounds a single TestConnection dial.
const ConnectionProbeTimeout = 2 * time.Second

// killGrace bounds the wait for a process to disappear after SIGKILL.
const killGrace = 2 * time.Second

// gatewayMainClass is the entry point inside the SikuliX jar.
const gatewayMainClass = "py4j.GatewayServer"

// PortPlaceholder in Config.Command is replaced with the configured
// port at launch.
const PortPlaceholder = "{port}"

// Config describes one gateway instance. The Manager reads it once at
// construction and never mutates it.
type Config struct {
	// Port the backend listens on.
	Port int

	// Host used to reach the backend. The backend always binds
	// loopback; Host exists for setups that forward the port.
	Host string

	// JavaPath is the java executable. Resolved through PATH when it
	// has no separator.
	JavaPath string

	// JarPath is the SikuliX jar. When empty the jar is searched for
	// under JarSearchDirs.
	JarPath string

	// JarSearchDirs are walked (to a bounded depth) for a jar whose
	// name contains "sikulix".
	JarSearchDirs []string

	// Command replaces the java invocation entirely. Arguments equal
	// to or containing PortPlaceholder get the port substituted.
	Command []string

	StartupTimeout  time.Duration
	ShutdownTimeout time.Duration
	PollInterval    time.Duration

	// StateDir holds one record per port describing the running
	// backend, so later invocations can stop or inspect it. Empty
	// disables the record.
	StateDir string

	// LogFile receives the backend's stdout and stderr. Empty
	// discards them.
	LogFile string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Port:            DefaultPort,
		Host:            "127.0.0.1",
		JavaPath:        "java",
		JarSearchDirs:   []string{".", "/Applications", "/usr/local"},
		StartupTimeout:  30 * time.Second,
		ShutdownTimeout: 8 * time.Second,
		PollInterval:    200 * time.Millisecond,
		StateDir:        defaultStateDir(),
	}
}

func defaultStateDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "sikuli", "state")
	}
	return filepath.Join(os.TempDir(), "sikuli-state")
}

// Address is the host:port the backend is probed and dialed on.
func (c Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Endpoint returns the dialable endpoint for this configuration.
func (c Config) Endpoint() Endpoint {
	return Endpoint{Host: c.Host, Port: c.Port}
}

// Validate reports every invalid field at once as a *ConfigError.
func (c Config) Validate() error {
	var problems []error
	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Errorf("port %d out of range 1-65535", c.Port))
	}
	if strings.TrimSpace(c.Host) == "" {
		problems = append(problems, errors.New("host is required"))
	}
	if c.StartupTimeout <= 0 {
		problems = append(problems, fmt.Errorf("startup timeout must be positive, got %v", c.StartupTimeout))
	}
	if c.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Errorf("shutdown timeout must be positive, got %v", c.ShutdownTimeout))
	}
	if c.PollInterval <= 0 {
		problems = append(problems, fmt.Errorf("poll interval must be positive, got %v", c.PollInterval))
	} else if c.StartupTimeout > 0 && c.PollInterval > c.StartupTimeout {
		problems = append(problems, fmt.Errorf("poll interval %v exceeds startup timeout %v", c.PollInterval, c.StartupTimeout))
	}
	if len(c.Command) == 0 && strings.TrimSpace(c.JavaPath) == "" {
		problems = append(problems, errors.New("java path is required when no command is set"))
	}
	if len(c.Command) > 0 && strings.TrimSpace(c.Command[0]) == "" {
		problems = append(problems, errors.New("command executable is empty"))
	}
	if len(problems) == 0 {
		return nil
	}
	return &ConfigError{Err: errors.Join(problems...)}
}

// statePath is the record file for this port, or "" when disabled.
func (c Config) statePath() string {
	if c.StateDir == "" {
		return ""
	}
	return filepath.Join(c.StateDir, fmt.Sprintf("gateway-%d.cbor", c.Port))
}

// LaunchSpec is a fully resolved backend command line.
type LaunchSpec struct {
	Path    string
	Args    []string
	LogFile string

	// Jar is the backend jar, empty for a custom Command.
	Jar string
}

// Argv returns the command line as recorded in the state file.
func (s LaunchSpec) Argv() []string {
	return append([]string{s.Path}, s.Args...)
}

// launchSpec resolves the java executable and jar, or the custom
// command, into a LaunchSpec.
func (c Config) launchSpec() (LaunchSpec, error) {
	port := strconv.Itoa(c.Port)
	if len(c.Command) > 0 {
		path, err := lookPath(c.Command[0])
		if err != nil {
			return LaunchSpec{}, err
		}
		args := make([]string, 0, len(c.Command)-1)
		for _, arg := range c.Command[1:] {
			args = append(args, strings.ReplaceAll(arg, PortPlaceholder, port))
		}
		return LaunchSpec{Path: path, Args: args, LogFile: c.LogFile}, nil
	}

	jar, err := FindJar(c.JarPath, c.JarSearchDirs)
	if err != nil {
		return LaunchSpec{}, err
	}
	java, err := lookPath(c.JavaPath)
	if err != nil {
		return LaunchSpec{}, err
	}
	return LaunchSpec{
		Path:    java,
		Args:    []string{"-cp", jar, gatewayMainClass, port},
		LogFile: c.LogFile,
		Jar:     jar,
	}, nil
}
