package multiwrite

import (
	"log/slog"
	"os"
)

var logLevel = new(slog.LevelVar)

// ConfigureLogging sets up the global default logger with a TextHandler and
// configures the log level based on the MULTIWRITE_LOG_LEVEL environment
// variable. It defaults to Info level if not specified.
//
// Call this at application startup to use the default logging configuration;
// proxies built with Options.Logger set are unaffected.
func ConfigureLogging() {
	// Default to Info
	logLevel.Set(slog.LevelInfo)

	switch os.Getenv("MULTIWRITE_LOG_LEVEL") {
	case "DEBUG":
		logLevel.Set(slog.LevelDebug)
	case "WARN":
		logLevel.Set(slog.LevelWarn)
	case "ERROR":
		logLevel.Set(slog.LevelError)
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// SetLogLevel sets the logging level for the logger configured by
// ConfigureLogging.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}
