// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"io"

	"github.com/schollz/progressbar/v2"
)

// fileProgress tracks completed files across a multi-file decompress
// invocation. Unlike cmd/pbzip2's per-block progress channel (the
// decompressor there streams block-by-block completions from a worker
// pool), this package's core decoder runs synchronously to completion
// for one whole file at a time, so the unit of progress here is
// "files done" rather than "bytes decompressed so far".
type fileProgress struct {
	bar *progressbar.ProgressBar
}

// progressOpts holds newFileProgress's tunables, set via progressOption
// closures, the same functional-options shape as ReaderOption in
// reader.go.
type progressOpts struct {
	description string
}

// progressOption configures newFileProgress.
type progressOption func(*progressOpts)

// withDescription sets the label drawn alongside the progress bar.
func withDescription(d string) progressOption {
	return func(o *progressOpts) { o.description = d }
}

func newFileProgress(w io.Writer, total int, opts ...progressOption) *fileProgress {
	o := progressOpts{description: "decompressing"}
	for _, opt := range opts {
		opt(&o)
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(o.description),
		progressbar.OptionSetPredictTime(true))
	bar.RenderBlank()
	return &fileProgress{bar: bar}
}

func (p *fileProgress) fileDone() {
	p.bar.Add(1)
}

func (p *fileProgress) finish(w io.Writer) {
	p.bar.Finish()
	io.WriteString(w, "\n")
}
