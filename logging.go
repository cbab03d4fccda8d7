package main

import (
	"os"

	logging "github.com/op/go-logging"
)

var log = logging.MustGetLogger("sixview")

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{module} %{level:.4s} %{message}`,
)

// setupLogging sends log records to stderr; stdout is reserved for the sixel
// stream. Only errors are shown unless verbose is set.
func setupLogging(verbose bool) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, logFormat))
	if verbose {
		leveled.SetLevel(logging.DEBUG, "")
	} else {
		leveled.SetLevel(logging.ERROR, "")
	}
	logging.SetBackend(leveled)
}
