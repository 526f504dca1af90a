// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/sikuli-go/sikuli/lib/gateway"
	"github.com/sikuli-go/sikuli/lib/sikuli"
)

// PathEnv names the environment variable that points at a config
// file when no --config flag is given.
const PathEnv = "SIKULI_CONFIG"

// Config is the file format shared by the CLI and library users.
// Durations are Go duration strings ("30s", "250ms").
type Config struct {
	Gateway    GatewayConfig    `yaml:"gateway" json:"gateway"`
	Automation AutomationConfig `yaml:"automation" json:"automation"`
}

// GatewayConfig configures the backend process.
type GatewayConfig struct {
	Port            int      `yaml:"port" json:"port"`
	Host            string   `yaml:"host" json:"host"`
	Java            string   `yaml:"java" json:"java"`
	Jar             string   `yaml:"jar" json:"jar"`
	JarSearchDirs   []string `yaml:"jar_search_dirs" json:"jar_search_dirs"`
	Command         []string `yaml:"command" json:"command"`
	StartupTimeout  string   `yaml:"startup_timeout" json:"startup_timeout"`
	ShutdownTimeout string   `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	PollInterval    string   `yaml:"poll_interval" json:"poll_interval"`
	StateDir        string   `yaml:"state_dir" json:"state_dir"`
	LogFile         string   `yaml:"log_file" json:"log_file"`
}

// AutomationConfig holds defaults for the automation client.
type AutomationConfig struct {
	// WaitTimeout bounds Region.Wait and WaitVanish when the caller
	// passes no timeout.
	WaitTimeout string `yaml:"wait_timeout" json:"wait_timeout"`

	// ScanInterval is the pause between lookups while waiting.
	ScanInterval string `yaml:"scan_interval" json:"scan_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	defaults := gateway.DefaultConfig()
	options := sikuli.DefaultOptions()
	return &Config{
		Gateway: GatewayConfig{
			Port:            defaults.Port,
			Host:            defaults.Host,
			Java:            defaults.JavaPath,
			JarSearchDirs:   defaults.JarSearchDirs,
			StartupTimeout:  defaults.StartupTimeout.String(),
			ShutdownTimeout: defaults.ShutdownTimeout.String(),
			PollInterval:    defaults.PollInterval.String(),
			StateDir:        defaults.StateDir,
		},
		Automation: AutomationConfig{
			WaitTimeout:  options.WaitTimeout.String(),
			ScanInterval: options.ScanInterval.String(),
		},
	}
}

// Load builds the configuration from defaults, then the file at path
// (or $SIKULI_CONFIG when path is empty; no file at all is fine),
// then the environment. Command-line flags are applied by the caller
// on top of the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(PathEnv)
	}
	config := Default()
	if path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := config.applyEnvironment(os.LookupEnv); err != nil {
		return nil, err
	}
	config.expandVariables()
	return config, nil
}

// loadFile merges the file into c. Files ending in .json or .jsonc
// are JSON with comments; anything else is YAML. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return nil
}

// applyEnvironment overlays the recognized environment variables.
func (c *Config) applyEnvironment(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		value, ok := lookup(name)
		return value, ok && value != ""
	}

	if value, ok := get("SIKULIX_JAR"); ok {
		c.Gateway.Jar = value
	} else if value, ok := get("SIKULIX"); ok {
		c.Gateway.Jar = value
	}
	if value, ok := get("JAVA_HOME"); ok {
		c.Gateway.Java = filepath.Join(value, "bin", "java")
	}
	if value, ok := get("SIKULI_GATEWAY_PORT"); ok {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("SIKULI_GATEWAY_PORT: %q is not a port number", value)
		}
		c.Gateway.Port = port
	}
	if value, ok := get("SIKULI_GATEWAY_HOST"); ok {
		c.Gateway.Host = value
	}
	if value, ok := get("SIKULI_GATEWAY_STARTUP_TIMEOUT"); ok {
		c.Gateway.StartupTimeout = value
	}
	if value, ok := get("SIKULI_GATEWAY_SHUTDOWN_TIMEOUT"); ok {
		c.Gateway.ShutdownTimeout = value
	}
	if value, ok := get("SIKULI_GATEWAY_POLL_INTERVAL"); ok {
		c.Gateway.PollInterval = value
	}
	if value, ok := get("SIKULI_GATEWAY_LOG"); ok {
		c.Gateway.LogFile = value
	}
	if value, ok := get("SIKULI_STATE_DIR"); ok {
		c.Gateway.StateDir = value
	}
	return nil
}

func (c *Config) expandVariables() {
	c.Gateway.Java = expandVars(c.Gateway.Java)
	c.Gateway.Jar = expandVars(c.Gateway.Jar)
	c.Gateway.StateDir = expandVars(c.Gateway.StateDir)
	c.Gateway.LogFile = expandVars(c.Gateway.LogFile)
	for i, dir := range c.Gateway.JarSearchDirs {
		c.Gateway.JarSearchDirs[i] = expandVars(dir)
	}
	for i, arg := range c.Gateway.Command {
		c.Gateway.Command[i] = expandVars(arg)
	}
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// GatewayConfig converts the gateway section into a validated
// gateway.Config. Errors are *gateway.ConfigError.
func (c *Config) GatewayConfig() (gateway.Config, error) {
	var problems []error
	duration := func(field, value string) time.Duration {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			problems = append(problems, fmt.Errorf("gateway.%s: %w", field, err))
		}
		return parsed
	}

	result := gateway.Config{
		Port:            c.Gateway.Port,
		Host:            c.Gateway.Host,
		JavaPath:        c.Gateway.Java,
		JarPath:         c.Gateway.Jar,
		JarSearchDirs:   c.Gateway.JarSearchDirs,
		Command:         c.Gateway.Command,
		StartupTimeout:  duration("startup_timeout", c.Gateway.StartupTimeout),
		ShutdownTimeout: duration("shutdown_timeout", c.Gateway.ShutdownTimeout),
		PollInterval:    duration("poll_interval", c.Gateway.PollInterval),
		StateDir:        c.Gateway.StateDir,
		LogFile:         c.Gateway.LogFile,
	}
	if len(problems) > 0 {
		return gateway.Config{}, &gateway.ConfigError{Err: errors.Join(problems...)}
	}
	if err := result.Validate(); err != nil {
		return gateway.Config{}, err
	}
	return result, nil
}

// ClientOptions converts the automation section into client options.
func (c *Config) ClientOptions() (sikuli.Options, error) {
	options := sikuli.DefaultOptions()
	var problems []error
	if c.Automation.WaitTimeout != "" {
		value, err := time.ParseDuration(c.Automation.WaitTimeout)
		if err != nil {
			problems = append(problems, fmt.Errorf("automation.wait_timeout: %w", err))
		}
		options.WaitTimeout = value
	}
	if c.Automation.ScanInterval != "" {
		value, err := time.ParseDuration(c.Automation.ScanInterval)
		if err != nil {
			problems = append(problems, fmt.Errorf("automation.scan_interval: %w", err))
		}
		options.ScanInterval = value
	}
	if len(problems) == 0 {
		problems = append(problems, options.Validate())
	}
	if err := errors.Join(problems...); err != nil {
		return sikuli.Options{}, err
	}
	return options, nil
}
