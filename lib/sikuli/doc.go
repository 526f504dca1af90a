// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package sikuli drives GUI automation through a SikuliX backend
// running in a separate JVM.
//
// A [Client] owns the connection. It asks a [Gateway] (normally a
// *gateway.Manager) to make sure the backend is listening, then opens
// a [Transport] with the injected [Dialer]. Nothing is started or
// dialed until the first call that needs the backend.
//
// The wrapper types ([Region], [Screen], [Match], [Location],
// [Pattern], [App]) each hold a reference to a backend object and turn
// method calls into transport calls. Region, Screen and Match share
// their mouse, keyboard and geometry behavior through the [Area]
// interface. Any wrapper can be passed where the backend expects an
// object because it implements [Remote].
//
// Lookups that fail inside the backend are not errors: Find, Wait and
// Exists return a nil *Match. Errors mean the connection or the
// arguments were bad.
package sikuli
