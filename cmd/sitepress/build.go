// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"time"

	"github.com/open2b/sitepress/internal/ctxlog"

	"github.com/spf13/cobra"
)

func newBuildCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the site",
		Long: `Build compiles the content items and the page views of the project and
writes the site to the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), opts)
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			return build(ctx, p)
		},
	}
}

// build builds the whole site of p.
func build(ctx context.Context, p *project) error {
	start := time.Now()
	err := p.site.Build(ctx)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("site built", "out", p.out, "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
