package keypad

import (
	"github.com/sirupsen/logrus"
)

var (
	// package logger instance
	log = logrus.New()
)

// SetLogLevel changes the package log level.
func SetLogLevel(level string) error {
	ll, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	log.SetLevel(ll)
	return nil // OK
}

// GetLogLevel gets the package log level.
func GetLogLevel() logrus.Level {
	return log.GetLevel()
}

func init() {
	// be silent by default
	log.SetLevel(logrus.WarnLevel)
}
