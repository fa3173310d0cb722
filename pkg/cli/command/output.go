// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"os"

	"github.com/tram-stm/go-tram/pkg/errors"
)

const (
	// http://tldp.org/LDP/abs/html/exitcodes.html
	ExitSuccess = iota
	ExitError
	ExitBadConnection
	ExitInvalidInput
	ExitBadFeature
	ExitInterrupted
	ExitIO
	ExitBadArgs = 128
)

func ExitWithOutput(output ...interface{}) {
	fmt.Fprintln(os.Stdout, output...)
	os.Exit(ExitSuccess)
}

func ExitWithSuccess() {
	os.Exit(ExitSuccess)
}

func ExitWithError(code int, err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(code)
}

// exitCode maps an error to the exit code reported for it
func exitCode(err error) int {
	switch {
	case errors.IsInvalid(err):
		return ExitInvalidInput
	case errors.IsCanceled(err), errors.IsTimeout(err):
		return ExitInterrupted
	case errors.IsUnsupported(err):
		return ExitBadFeature
	default:
		return ExitError
	}
}

func errUnknownKey(key string) error {
	return errors.NewNotFound("unknown configuration key %q", key)
}
