// Package log provides prefixed, colour coded loggers for the application components.
package log

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

const colorReset = "\033[0m"

var levelColors = map[logrus.Level]string{
	logrus.ErrorLevel: "\033[31m",
	logrus.WarnLevel:  "\033[33m",
	logrus.InfoLevel:  "\033[32m",
}

// Logger writes "[PREFIX] [LEVEL] message" lines.
type Logger struct {
	entry *logrus.Logger
}

// New creates a logger whose prefix is printed in color.
func New(prefix, color string, out io.Writer) (*Logger, error) {
	if prefix == "" {
		return nil, errors.New("logger prefix is required")
	}
	if out == nil {
		return nil, errors.New("logger output is required")
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&prefixFormatter{prefix: prefix, color: color})
	return &Logger{entry: l}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.entry.Info(msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.entry.Warn(msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.entry.Error(msg)
}

type prefixFormatter struct {
	prefix string
	color  string
}

// Format implements logrus.Formatter.
func (f *prefixFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	level := strings.ToUpper(e.Level.String())
	if level == "WARNING" {
		level = "WARN"
	}

	fmt.Fprintf(&b, "%s %s[%s]%s %s[%s]%s %s\n",
		e.Time.Format("2006/01/02 15:04:05"),
		f.color, f.prefix, colorReset,
		levelColors[e.Level], level, colorReset,
		e.Message,
	)
	return b.Bytes(), nil
}
