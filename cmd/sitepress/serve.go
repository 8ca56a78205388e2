// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/open2b/sitepress/internal/ctxlog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build and serve the site, building it again when the project changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), opts)
			p, err := openProject(opts)
			if err != nil {
				return err
			}
			w, err := newWatcher(p)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := build(ctx, p); err != nil {
				ctxlog.FromContext(ctx).Error("build failed", "err", err)
			}
			return serve(ctx, p, w, addr)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address of the web server")
	return cmd
}

// serve serves the output directory of p, and builds again the changed
// files, until ctx is done.
func serve(ctx context.Context, p *project, w *watcher, addr string) error {
	s := &http.Server{
		Addr:           addr,
		Handler:        noCache(http.FileServer(http.Dir(p.out))),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.run(ctx, p.site.Changed)
	})
	g.Go(func() error {
		err := s.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdown)
	})
	fmt.Fprintf(os.Stderr, "Web server is available at http://localhost%s/\n", addr)
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")
	return g.Wait()
}

// noCache returns a handler that disables the browser cache.
func noCache(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.ServeHTTP(w, r)
	})
}
