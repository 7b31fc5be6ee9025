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
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogrus returns a human-friendly logger writing to stdout.
func NewLogrus() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(newFormatter(FormatConsole))
	logger.SetLevel(logrus.InfoLevel)

	return logger
}

func newFormatter(format Format) logrus.Formatter {
	if format == FormatJSON {
		return &logrus.JSONFormatter{
			TimestampFormat: TimestampFormat,
		}
	}

	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: TimestampFormat,
	}
}

// Prefix returns an entry whose messages are indented by the given prefix.
// It shares level, output and hooks with the entry's logger, so nested log
// lines show up exactly where their parent's would.
func Prefix(e *logrus.Entry, prefix string) *logrus.Entry {
	parent := e.Logger

	logger := logrus.New()
	logger.SetOutput(parent.Out)
	logger.SetLevel(parent.GetLevel())
	logger.SetFormatter(&prefixFormatter{
		prefix:    prefix,
		formatter: parent.Formatter,
	})
	logger.ReplaceHooks(parent.Hooks)
	logger.ExitFunc = parent.ExitFunc

	return logger.WithFields(e.Data)
}

type prefixFormatter struct {
	prefix    string
	formatter logrus.Formatter
}

func (f *prefixFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	// JSON output is not meant for humans, so indentation only adds noise
	if _, ok := f.formatter.(*logrus.JSONFormatter); ok {
		return f.formatter.Format(entry)
	}

	clone := *entry
	clone.Message = f.prefix + entry.Message

	return f.formatter.Format(&clone)
}
