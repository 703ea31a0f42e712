// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"runtime"

	"cloudeng.io/cmdutil/subcmd"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags; it defaults to "dev" so
// locally built binaries still report something meaningful for the
// version subcommand.
var version = "dev"

var cmdSet *subcmd.CommandSet

func init() {
	defaultConcurrency := map[string]interface{}{
		"concurrency": runtime.GOMAXPROCS(-1),
	}

	catCmd := subcmd.NewCommand("cat",
		subcmd.MustRegisterFlagStruct(&catFlags{}, defaultConcurrency, nil),
		cat, subcmd.AtLeastNArguments(0))
	catCmd.Document(`decompress gzip files or stdin to stdout. Files may be local, on S3 or a URL.`)

	decompressCmd := subcmd.NewCommand("decompress",
		subcmd.MustRegisterFlagStruct(&decompressFlags{}, defaultConcurrency, nil),
		decompress, subcmd.AtLeastNArguments(1))
	decompressCmd.Document(`decompress one or more gzip files in place, writing each alongside its input unless --stdout or an output name is derived otherwise.`)

	inspectCmd := subcmd.NewCommand("inspect",
		subcmd.MustRegisterFlagStruct(&inspectFlags{}, defaultConcurrency, nil),
		inspect, subcmd.AtLeastNArguments(1))
	inspectCmd.Document(`print gzip header and trailer metadata (name, mtime, size, CRC-32) without decompressing the payload.`)

	testCmd := subcmd.NewCommand("test",
		subcmd.MustRegisterFlagStruct(&testFlags{}, defaultConcurrency, nil),
		test, subcmd.AtLeastNArguments(1))
	testCmd.Document(`verify the integrity of one or more gzip files, discarding decompressed output.`)

	cmdSet = subcmd.NewCommandSet(catCmd, decompressCmd, inspectCmd, testCmd)
	cmdSet.Document(`decompress and inspect gzip files. Files may be local, on S3 or a URL.`)
}

// newRootCmd wraps cmdSet in a thin cobra.Command so the binary gets a
// `version` subcommand; every other invocation falls through to cmdSet's
// own flag parsing and dispatch, unchanged from how cmd/pbzip2 is invoked.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:                "gzinflate",
		Short:              "decompress and inspect gzip files",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdSet.MustDispatch(context.Background())
			return nil
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print the gzinflate version and exit",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		panic(err)
	}
}
