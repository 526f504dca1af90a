// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads sikuli-gateway configuration.
//
// Values are layered, lowest precedence first: built-in defaults, a
// config file (named by --config or SIKULI_CONFIG; YAML, or JSON with
// comments for .json/.jsonc files), then environment variables. The
// CLI applies explicit flags last.
//
// Recognized environment variables:
//
//	SIKULIX_JAR, SIKULIX              backend jar
//	JAVA_HOME                         java = $JAVA_HOME/bin/java
//	SIKULI_GATEWAY_PORT               port
//	SIKULI_GATEWAY_HOST               host
//	SIKULI_GATEWAY_STARTUP_TIMEOUT    duration
//	SIKULI_GATEWAY_SHUTDOWN_TIMEOUT   duration
//	SIKULI_GATEWAY_POLL_INTERVAL      duration
//	SIKULI_GATEWAY_LOG                backend log file
//	SIKULI_STATE_DIR                  state record directory
//
// Path fields expand ${VAR} and ${VAR:-default}.
package config
