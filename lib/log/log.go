// Package log provides logging for pjdfstest
package log

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

func init() {
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
}

// SetVerbose turns debug level logging on or off
func SetVerbose(verbose bool) {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// Debugf writes debug level output - needs -v
func Debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

// Infof writes info level output
func Infof(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}

// Warningf writes warning level output
func Warningf(format string, args ...interface{}) {
	logrus.Warningf(format, args...)
}

// Errorf writes error level output
func Errorf(format string, args ...interface{}) {
	logrus.Errorf(format, args...)
}

// Fatalf writes the message to stderr and exits with a non-zero status.
// Reserved for fixture and configuration defects which make the suite
// impossible to run.
func Fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
