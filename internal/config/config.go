// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the configuration file of the markup command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file.
const FileName = "markup.yaml"

// SourceSuffix is the suffix of the template description files.
const SourceSuffix = ".markup.yaml"

// DefaultSuffix is the default suffix of the generated files.
const DefaultSuffix = ".markup.go"

// Config is the configuration of the markup command.
type Config struct {

	// Package is the name of the package of the generated files, if the
	// description does not declare it. If empty, the package name is
	// deduced from the directory.
	Package string `yaml:"package"`

	// Suffix is the suffix of the generated files. It replaces the suffix
	// ".markup.yaml" of the descriptions.
	Suffix string `yaml:"suffix"`

	// Markdown reports whether the Markdown text is converted to HTML.
	Markdown bool `yaml:"markdown"`

	// Exclude contains patterns, as in path.Match, of the names of the
	// directories to skip.
	Exclude []string `yaml:"exclude"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{Suffix: DefaultSuffix, Markdown: true}
}

// Parse parses a configuration. Missing keys have their default values.
func Parse(src []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the configuration file with the given name. If name is empty,
// it reads the file FileName in the current directory, if it exists,
// otherwise it returns the default configuration.
func Load(name string) (*Config, error) {
	optional := name == ""
	if optional {
		name = FileName
	}
	src, err := os.ReadFile(name)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	c, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Suffix == "" {
		c.Suffix = DefaultSuffix
	}
	if !strings.HasSuffix(c.Suffix, ".go") {
		return fmt.Errorf("suffix %q does not end with \".go\"", c.Suffix)
	}
	if strings.HasSuffix(c.Suffix, "_test.go") {
		return fmt.Errorf("suffix %q is the suffix of test files", c.Suffix)
	}
	if strings.ContainsAny(c.Suffix, `/\`) {
		return fmt.Errorf("suffix %q contains a path separator", c.Suffix)
	}
	for _, pattern := range c.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// Excluded reports whether the directory dir must be skipped. Directories
// whose name starts with "." or "_", and "testdata", are always skipped as
// the go command does.
func (c *Config) Excluded(dir string) bool {
	name := filepath.Base(dir)
	if name == "." || name == ".." {
		return false
	}
	if name[0] == '.' || name[0] == '_' || name == "testdata" {
		return true
	}
	for _, pattern := range c.Exclude {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Output returns the name of the file generated from the description src.
func (c *Config) Output(src string) string {
	return strings.TrimSuffix(src, SourceSuffix) + c.Suffix
}
