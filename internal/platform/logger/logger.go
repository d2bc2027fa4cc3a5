package logger

import (
	"log/slog"
	"os"
)

// New returns the service-wide structured logger. JSON to stdout so log
// shippers can parse it without configuration.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
