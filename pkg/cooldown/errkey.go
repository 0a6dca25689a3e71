// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package cooldown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zeebo/errs"
)

// ErrorIdentifier derives a stable cooldown identifier from err and every
// cause it wraps: the literal "error" followed by "_<kind>:<message>" for
// each level of the unwrap chain. Structurally identical chains (same kinds,
// messages and chain length) map to the same identifier and therefore share
// cooldown state; any difference in message or chain length produces a
// distinct identifier.
//
// The chain is walked iteratively so that arbitrarily deep chains cannot
// exhaust the stack.
func ErrorIdentifier(err error) string {
	var b strings.Builder
	b.WriteString("error")
	for e := err; e != nil; e = errors.Unwrap(e) {
		b.WriteString("_")
		b.WriteString(errorKind(e))
		b.WriteString(":")
		b.WriteString(e.Error())
	}
	return b.String()
}

// errorKind names a single level of an error chain: the errs class name when
// the error carries one, otherwise its dynamic Go type.
func errorKind(err error) string {
	if namer, ok := err.(errs.Namer); ok { //nolint: errorlint // single level, the unwrap loop is external.
		if name, ok := namer.Name(); ok {
			return name
		}
	}
	return fmt.Sprintf("%T", err)
}
