// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the binary encoding for on-disk gateway records.
//
// Records are CBOR (RFC 8949) with core deterministic encoding, so the
// same record always produces the same bytes. Struct types use cbor
// tags; fields carrying json tags also work through the library's
// fallback.
package codec
