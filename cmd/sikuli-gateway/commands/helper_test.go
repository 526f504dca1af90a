// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/sikuli-go/sikuli/lib/process"
	"github.com/sikuli-go/sikuli/lib/testutil"
)

const (
	helperEnv    = "SIKULI_GATEWAY_COMMANDS_TEST_BACKEND"
	helperCLIEnv = "SIKULI_GATEWAY_COMMANDS_TEST_CLI"
)

// TestHelperBackend is not a real test. The gateway configured by
// gatewayConfig runs the test binary with helperEnv set, and this
// function then listens on the port like a backend. In "chatty" mode
// it also writes a line to stdout every few milliseconds and exits if
// a write fails.
func TestHelperBackend(t *testing.T) {
	mode := os.Getenv(helperEnv)
	if mode == "" {
		return
	}
	port := os.Args[len(os.Args)-1]
	listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", port))
	if err != nil {
		os.Exit(4)
	}
	if mode == "chatty" {
		go func() {
			for {
				if _, err := fmt.Fprintln(os.Stdout, "scanning"); err != nil {
					os.Exit(6)
				}
				time.Sleep(10 * time.Millisecond)
			}
		}()
	}
	for {
		conn, err := listener.Accept()
		if err != nil {
			os.Exit(5)
		}
		conn.Close()
	}
}

// TestHelperCLI is not a real test. With helperCLIEnv set it runs the
// arguments after "--" as one sikuli-gateway invocation in this process
// and exits with its code, so a test can let the CLI process end.
func TestHelperCLI(t *testing.T) {
	if os.Getenv(helperCLIEnv) == "" {
		return
	}
	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}
	err := Root(Env{Stdout: os.Stdout, Stderr: os.Stderr}).Execute(context.Background(), args)
	os.Exit(process.ExitCode(err))
}

// runCLI runs one invocation as a separate process of the test binary.
func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	executable, err := os.Executable()
	if err != nil {
		t.Fatalf("locating test binary: %v", err)
	}
	cmd := exec.Command(executable, append([]string{"-test.run=^TestHelperCLI$", "--"}, args...)...)
	cmd.Env = append(os.Environ(), helperCLIEnv+"=1")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("running %v: %v", args, err)
	}
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// clearEnvironment keeps the developer's settings out of the tests.
func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"SIKULI_CONFIG", "SIKULIX_JAR", "SIKULIX", "JAVA_HOME",
		"SIKULI_GATEWAY_PORT", "SIKULI_GATEWAY_HOST",
		"SIKULI_GATEWAY_STARTUP_TIMEOUT", "SIKULI_GATEWAY_SHUTDOWN_TIMEOUT",
		"SIKULI_GATEWAY_POLL_INTERVAL", "SIKULI_GATEWAY_LOG", "SIKULI_STATE_DIR",
	} {
		t.Setenv(name, "")
	}
}

// gatewayConfig writes a config file whose gateway is the test binary
// and returns its path and port.
func gatewayConfig(t *testing.T) (string, int) {
	t.Helper()
	if testing.Short() {
		t.Skip("spawns processes")
	}
	clearEnvironment(t)
	t.Setenv(helperEnv, "listen")

	executable, err := os.Executable()
	if err != nil {
		t.Fatalf("locating test binary: %v", err)
	}
	port := testutil.FreePort(t)
	dir := t.TempDir()
	content := fmt.Sprintf(`gateway:
  port: %d
  command: [%q, "-test.run=^TestHelperBackend$", "--", "{port}"]
  state_dir: %q
  startup_timeout: 5s
  shutdown_timeout: 2s
  poll_interval: 50ms
`, port, executable, filepath.Join(dir, "state"))
	path := filepath.Join(dir, "sikuli.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		execute(context.Background(), "stop", "--config", path)
	})
	return path, port
}

type result struct {
	code   int
	stdout string
	stderr string
}

// execute runs one invocation with a fresh command tree, as a separate
// process of the binary would.
func execute(ctx context.Context, args ...string) result {
	var stdout, stderr bytes.Buffer
	err := Root(Env{Stdout: &stdout, Stderr: &stderr}).Execute(ctx, args)
	return result{code: process.ExitCode(err), stdout: stdout.String(), stderr: stderr.String()}
}
