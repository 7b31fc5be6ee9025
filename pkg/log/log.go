/*
Copyright 2026 The Kubermatic Kubernetes Platform contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package log

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// Format is the output format of the logger.
type Format string

const (
	FormatJSON    Format = "JSON"
	FormatConsole Format = "Console"

	// TimestampFormat matches the timestamps the data pipeline tooling has
	// always printed.
	TimestampFormat = "2006-01-02 15:04:05"
)

// AvailableFormats lists all formats that can be passed to --log-format.
var AvailableFormats = Formats{FormatJSON, FormatConsole}

type Formats []Format

func (f Formats) String() string {
	parts := make([]string, 0, len(f))
	for _, format := range f {
		parts = append(parts, string(format))
	}

	return strings.Join(parts, ",")
}

// Type implements pflag.Value.
func (f *Format) Type() string {
	return "string"
}

// String implements pflag.Value.
func (f *Format) String() string {
	return string(*f)
}

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	for _, format := range AvailableFormats {
		if strings.EqualFold(s, string(format)) {
			*f = format
			return nil
		}
	}

	return fmt.Errorf("invalid format %q, must be one of [%v]", s, AvailableFormats)
}

// Options holds the user-configurable logging settings.
type Options struct {
	// Debug enables more verbose logging.
	Debug bool
	// Format is the output format.
	Format Format
}

func NewDefaultOptions() Options {
	return Options{
		Debug:  false,
		Format: FormatConsole,
	}
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&o.Debug, "verbose", "v", o.Debug, "enable more verbose output")
	fs.Var(&o.Format, "log-format", fmt.Sprintf("log format, one of %v", AvailableFormats))
}

func (o *Options) Validate() error {
	for _, format := range AvailableFormats {
		if o.Format == format {
			return nil
		}
	}

	return fmt.Errorf("invalid log format %q, must be one of %v", o.Format, AvailableFormats)
}

// Apply reconfigures an existing logger according to the options.
func (o *Options) Apply(logger *logrus.Logger) {
	if o.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.SetFormatter(newFormatter(o.Format))
}
