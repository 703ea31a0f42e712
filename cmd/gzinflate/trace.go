// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import "log"

// trace prints a debug message when verbose is true, the same gate
// cmd/pbzip2's dc.trace applies around log.Printf (parallel.go).
func trace(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	log.Printf(format, args...)
}
