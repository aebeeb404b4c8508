// Package logging configures the process-wide logrus logger and hands out
// component-scoped entries.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var base = newBase(os.Stderr)

func newBase(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	return l
}

// NewLogger returns an entry tagged with the given component name
func NewLogger(component string) *logrus.Entry {
	return base.WithField("component", component)
}

// SetLevel sets the level from a name such as "debug" or "warn".
// An empty name leaves the level unchanged.
func SetLevel(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	return nil
}

// SetOutput redirects log output, mainly for tests
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// Discard returns an entry that drops everything written to it
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
