// Copyright 2021 Tetrate
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config reads the optional procctl configuration file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	valid "github.com/asaskevich/govalidator"
	"github.com/ghodss/yaml"
	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"

	"github.com/tetratelabs/procctl/pkg/charpp"
	"github.com/tetratelabs/procctl/pkg/process"
)

// Duration is a time.Duration written as a string such as "1500ms" in YAML.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Errorf("duration must be a string such as \"3s\", got %s", b)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config holds defaults for the command line.
type Config struct {
	// Shell is the interpreter of "procctl sh". It must be an absolute path.
	Shell string `json:"shell,omitempty"`
	// GracePeriod is how long a child has to exit after SIGTERM.
	GracePeriod Duration `json:"gracePeriod,omitempty"`
	// Group spawns children as leaders of a new process group.
	Group bool `json:"group,omitempty"`
	// Redirect lists the streams piped through procctl: stdin, stdout, stderr, all or none.
	Redirect []string `json:"redirect,omitempty"`
	// Env is added to the environment of spawned children.
	Env map[string]string `json:"env,omitempty"`
	// Command is spawned when "procctl spawn" is given nothing to run.
	Command string `json:"command,omitempty"`
}

// Load reads and validates the configuration file at path. A missing file results in an empty configuration when
// optional is true.
func Load(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if optional && os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.Wrapf(err, "unable to read configuration file %q", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid configuration file %q", path)
	}
	return c, nil
}

// Parse decodes and validates YAML configuration.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate returns an error for the first invalid field.
func (c *Config) Validate() error {
	if c.Shell != "" {
		if ok, kind := valid.IsFilePath(c.Shell); !ok || kind != valid.Unix {
			return errors.Errorf("shell %q is not an absolute path", c.Shell)
		}
	}
	if c.GracePeriod < 0 {
		return errors.Errorf("gracePeriod %s is negative", time.Duration(c.GracePeriod))
	}
	if _, err := c.Streams(); err != nil {
		return errors.Wrap(err, "invalid redirect")
	}
	for name := range c.Env {
		if err := charpp.ValidateName(name); err != nil {
			return errors.Wrap(err, "invalid env")
		}
	}
	if _, err := c.CommandArgs(); err != nil {
		return errors.Wrap(err, "invalid command")
	}
	return nil
}

// Streams returns Redirect as process.Redirect flags.
func (c *Config) Streams() (process.Redirect, error) {
	return process.ParseRedirect(c.Redirect...)
}

// CommandArgs splits Command into arguments the way a shell would, without expanding anything.
func (c *Config) CommandArgs() ([]string, error) {
	if c.Command == "" {
		return nil, nil
	}
	return shellwords.Parse(c.Command)
}

// Environment returns a copy of Env.
func (c *Config) Environment() charpp.Environment {
	return charpp.Environment(c.Env).Clone()
}
