// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"net"
)

// Prober checks whether something accepts connections at an address.
// Probe must return promptly once ctx is done.
type Prober interface {
	Probe(ctx context.Context, address string) error
}

// TCPProber opens and immediately closes a TCP connection.
type TCPProber struct{}

func (TCPProber) Probe(ctx context.Context, address string) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return err
	}
	return conn.Close()
}
