// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the configuration of a project.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/open2b/sitepress/internal/tracking"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"golang.org/x/mod/semver"
)

// DefaultFile is the configuration file read when no file is given.
const DefaultFile = "_config.yml"

// Config is the configuration of a project.
type Config struct {
	Title       string                `mapstructure:"title"`
	BaseURL     string                `mapstructure:"baseurl"`
	URL         string                `mapstructure:"url"`
	Target      string                `mapstructure:"target"`
	PageViews   []string              `mapstructure:"pageviews"`
	Collections []tracking.Collection `mapstructure:"collections"`
	Templates   Templates             `mapstructure:"templates"`
	MinVersion  string                `mapstructure:"minversion"`

	// Site holds all the configuration keys, exposed to the templates.
	Site map[string]interface{} `mapstructure:"-"`

	// File is the path of the read configuration file, or the empty string
	// if no file has been read.
	File string `mapstructure:"-"`
}

// Templates are the special templates.
type Templates struct {
	Redirect string `mapstructure:"redirect"`
}

// Load reads the configuration from the named file of fsys. If name is
// empty, it reads DefaultFile, if it exists. Values can be overridden by
// environment variables prefixed with "SITEPRESS_".
func Load(fsys afero.Fs, name string) (*Config, error) {
	v := viper.New()
	v.SetFs(fsys)
	v.SetDefault("target", "_site")
	v.SetDefault("pageviews", []string{"_pages"})
	v.SetDefault("baseurl", "")
	v.SetDefault("url", "")
	v.SetDefault("title", "")

	v.SetEnvPrefix("SITEPRESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := name
	if file == "" {
		file = DefaultFile
	}
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	err := v.ReadInConfig()
	if err != nil {
		if name != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("cannot read configuration file %q: %w", file, err)
		}
		file = ""
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("cannot decode configuration: %w", err)
	}
	c.Site = v.AllSettings()
	c.File = file
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	for _, col := range c.Collections {
		if col.Name == "" || col.Folder == "" {
			return nil, fmt.Errorf("collection %q must have a name and a folder", col.Name)
		}
	}
	return c, nil
}

// CheckVersion checks that version satisfies the minimum version of the
// configuration. A development version satisfies any minimum version.
func (c *Config) CheckVersion(version string) error {
	if c.MinVersion == "" {
		return nil
	}
	min := canonical(c.MinVersion)
	if !semver.IsValid(min) {
		return fmt.Errorf("invalid minimum version %q", c.MinVersion)
	}
	v := canonical(version)
	if !semver.IsValid(v) {
		return nil
	}
	if semver.Compare(v, min) < 0 {
		return fmt.Errorf("the project requires version %s or later, this is version %s", strings.TrimPrefix(min, "v"), strings.TrimPrefix(v, "v"))
	}
	return nil
}

func canonical(version string) string {
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}
