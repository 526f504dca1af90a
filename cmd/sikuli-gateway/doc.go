// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

// sikuli-gateway starts, stops and checks the SikuliX gateway process
// that sikuli-go programs drive.
//
//	sikuli-gateway start [port]   exit 0 ready, 1 failed, 2 bad configuration
//	sikuli-gateway stop           exit 0 stopped or not running, 1 error
//	sikuli-gateway status         exit 0
//	sikuli-gateway test           exit 0 reachable, 1 unreachable
//
// Configuration comes from flags, then environment variables, then the
// file named by --config or $SIKULI_CONFIG.
package main
