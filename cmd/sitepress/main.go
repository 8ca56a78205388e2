// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Sitepress compiles a static web site.
//
// Usage:
//
//	sitepress build [--dir dir] [--config file] [--out dir]
//	sitepress watch [--dir dir] [--config file] [--out dir]
//	sitepress serve [--dir dir] [--config file] [--out dir] [--addr addr]
//	sitepress version
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/open2b/sitepress"
	"github.com/open2b/sitepress/internal/ctxlog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// version is the version of the command. It can be set at link time.
var version = ""

// options are the flags shared by the commands.
type options struct {
	dir     string
	config  string
	out     string
	verbose bool
	quiet   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\033[1;31m%s\033[0m\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "sitepress",
		Short:         "Sitepress compiles a static web site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&opts.dir, "dir", "d", ".", "project directory")
	flags.StringVarP(&opts.config, "config", "c", "", "configuration file, relative to the project directory (default \"_config.yml\")")
	flags.StringVarP(&opts.out, "out", "o", "", "output directory, overrides the target of the configuration")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "log only warnings and errors")
	root.AddCommand(
		newBuildCommand(opts),
		newWatchCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sitepress version %s\n", currentVersion())
		},
	}
}

// currentVersion returns the version of the command.
func currentVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "devel"
}

// withLogger returns a copy of ctx with the logger of the command.
func withLogger(ctx context.Context, opts *options) context.Context {
	level := slog.LevelInfo
	switch {
	case opts.verbose:
		level = slog.LevelDebug
	case opts.quiet:
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: ctxlog.ReplaceLevel,
	}))
	return ctxlog.WithLogger(ctx, logger)
}

// project is a project opened by a command.
type project struct {
	site   *sitepress.Site
	config *sitepress.Config
	dir    string // project directory
	out    string // output directory
}

// openProject reads the configuration of the project and returns the
// project.
func openProject(opts *options) (*project, error) {
	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, err
	}
	src := afero.NewBasePathFs(afero.NewOsFs(), dir)
	cfg, err := sitepress.LoadConfig(src, opts.config)
	if err != nil {
		return nil, err
	}
	err = cfg.CheckVersion(currentVersion())
	if err != nil {
		return nil, err
	}
	if opts.out != "" {
		cfg.Target = opts.out
	}
	out := cfg.Target
	if !filepath.IsAbs(out) {
		out = filepath.Join(dir, out)
	}
	if out == dir {
		return nil, fmt.Errorf("output directory cannot be the project directory")
	}
	if rel, err := filepath.Rel(dir, out); err == nil && !strings.HasPrefix(rel, "..") {
		cfg.Target = filepath.ToSlash(rel)
	}
	err = os.MkdirAll(out, 0755)
	if err != nil {
		return nil, err
	}
	outFs := afero.NewBasePathFs(afero.NewOsFs(), out)
	return &project{
		site:   sitepress.New(src, outFs, cfg),
		config: cfg,
		dir:    dir,
		out:    out,
	}, nil
}
