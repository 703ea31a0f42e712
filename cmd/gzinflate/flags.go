// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

// CommonFlags are shared by every subcommand, mirroring
// cmd/pbzip2's CommonFlags.
type CommonFlags struct {
	Concurrency int  `subcmd:"concurrency,4,'number of files to decompress concurrently'"`
	Verbose     bool `subcmd:"verbose,false,verbose debug/trace information"`
	Quiet       bool `subcmd:"quiet,false,suppress warnings"`
}

type catFlags struct {
	CommonFlags
}

type decompressFlags struct {
	CommonFlags
	Stdout      bool   `subcmd:"stdout,false,write decompressed output to stdout and keep the input file"`
	Force       bool   `subcmd:"force,false,overwrite an existing output file"`
	Keep        bool   `subcmd:"keep,false,don't delete the input file after successful decompression"`
	Name        bool   `subcmd:"name,false,derive the output name from the name stored in the gzip header, if present"`
	Suffix      string `subcmd:"suffix,.gz,suffix stripped from the input name to derive the output name"`
	ProgressBar bool   `subcmd:"progress,true,display a progress bar across the files being decompressed"`
}

type inspectFlags struct {
	CommonFlags
}

type testFlags struct {
	CommonFlags
}
