package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/keypad"
)

var (
	// logger instance
	log = logrus.New()
)

// set with -ldflags "-X main.Version=..."
var (
	Version = "development"
)

func main() {
	var (
		port     int
		debug    bool
		rightPow bool
		histfile string
		limit    int
	)
	kingpin.Flag("port", "TCP port to listen on (0 for stdio).").Default("0").IntVar(&port)
	kingpin.Flag("debug", "Enable debug logging.").Short('d').BoolVar(&debug)
	kingpin.Flag("right-pow", "Make ^ right-associative.").BoolVar(&rightPow)
	kingpin.Flag("history", "File in which to keep calculation history.").StringVar(&histfile)
	kingpin.Flag("history-limit", "Maximum number of history entries.").Default("50").IntVar(&limit)
	kingpin.Version(Version)
	kingpin.Parse()

	// stdout belongs to the protocol
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(logrus.DebugLevel)
		keypad.SetLogLevel("debug")
	}

	hist := keypad.NewHistory(nil, limit)
	if histfile != "" {
		var err error
		hist, err = keypad.LoadHistory(keypad.NewFileStore(histfile), limit)
		if err != nil {
			log.WithError(err).Fatal("failed to load history")
		}
	}
	t := newTools(hist, rightPow)

	s := server.NewMCPServer(
		"calc-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)
	t.register(s)

	log.WithFields(map[string]interface{}{
		"version":   Version,
		"port":      port,
		"right-pow": rightPow,
		"history":   histfile,
		"funcs":     calc.DefaultFuncs(),
	}).Info("starting server...")

	if port == 0 {
		if err := server.ServeStdio(s); err != nil {
			log.WithError(err).Fatal("server failed")
		}
		return
	}
	hs := server.NewStreamableHTTPServer(s)
	if err := hs.Start(fmt.Sprintf(":%d", port)); err != nil {
		log.WithError(err).Fatal("HTTP server failed")
	}
}
