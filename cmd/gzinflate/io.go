// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v3"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/aws/aws-sdk-go/aws/session"
)

func init() {
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

// openFileOrURL opens name for reading, returning its size if known.
// Local paths and grailbio/base/file-registered schemes (currently
// "s3://") are retried a few times with backoff, since transient
// errors talking to a remote object store shouldn't fail a whole
// multi-file invocation outright; plain HTTP URLs are fetched once,
// matching cmd/pbzip2's treatment of http(s) sources.
func openFileOrURL(ctx context.Context, name string) (io.Reader, int64, func(context.Context) error, error) {
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		resp, err := http.Get(name)
		if err != nil {
			return nil, 0, nil, err
		}
		return resp.Body, resp.ContentLength, func(context.Context) error {
			return resp.Body.Close()
		}, nil
	}

	var (
		f    file.File
		info file.Info
	)
	open := func() error {
		var err error
		info, err = file.Stat(ctx, name)
		if err != nil {
			return err
		}
		f, err = file.Open(ctx, name)
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(open, backoff.WithContext(bo, ctx)); err != nil {
		return nil, 0, nil, err
	}
	return f.Reader(ctx), info.Size(), f.Close, nil
}

// readAll fully drains r, used because DecompressGzip needs the whole
// compressed stream (and its uncompressed size estimate) up front; it
// has no streaming mode.
func readAll(r io.Reader) ([]byte, error) {
	return ioutil.ReadAll(r)
}

// createFile opens name for writing, or stdout if name is empty.
func createFile(ctx context.Context, name string) (io.Writer, func(context.Context) error, error) {
	if len(name) == 0 {
		return os.Stdout, func(context.Context) error { return nil }, nil
	}
	f, err := file.Create(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	return f.Writer(ctx), f.Close, nil
}

// outputPathFor implements the output-path policy from the CLI flag
// table: prefer the gzip header's embedded filename when -N/--name was
// requested and the header carries one, otherwise strip suffix from
// the input path.
func outputPathFor(inputPath, headerName, suffix string, useHeaderName bool) string {
	if useHeaderName && headerName != "" {
		return headerName
	}
	if suffix != "" && strings.HasSuffix(inputPath, suffix) {
		return strings.TrimSuffix(inputPath, suffix)
	}
	return inputPath + ".out"
}
