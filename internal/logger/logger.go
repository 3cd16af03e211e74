// Package logger configures the structured logger shared across the
// dispatch core: one process-wide charmbracelet/log instance plus
// per-component loggers (dispatcher, tree, ingestion) that inherit its
// level and output but carry their own prefix and key styling.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Logger is the process-wide logger instance.
var Logger *log.Logger

func init() {
	Logger = log.New(os.Stderr)
	Logger.SetTimeFormat("")
	Logger.SetLevel(log.InfoLevel)
}

// Configure rebuilds Logger to write to logFile (or stderr) at the
// level resolved from logLevel, the LAMP_LOG_LEVEL environment
// variable, and finally "info", in that order of precedence.
func Configure(logLevel string, logFile string) error {
	output, err := openOutput(logFile)
	if err != nil {
		return err
	}
	Logger = log.New(output)
	Logger.SetTimeFormat("")
	Logger.SetLevel(parseLogLevel(resolveLevel(logLevel)))
	return nil
}

// resolveLevel applies the flag > env var > default precedence without
// touching the logger itself, so Configure stays a single assignment.
func resolveLevel(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("LAMP_LOG_LEVEL"); env != "" {
		return env
	}
	return "info"
}

func openOutput(logFile string) (io.Writer, error) {
	if logFile == "" {
		return os.Stderr, nil
	}
	return os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

func parseLogLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// Debug logs at debug level with optional key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) { Logger.Debug(msg, keyvals...) }

// Info logs at info level with optional key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) { Logger.Info(msg, keyvals...) }

// Warn logs at warn level with optional key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) { Logger.Warn(msg, keyvals...) }

// Error logs at error level with optional key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) { Logger.Error(msg, keyvals...) }

// componentStyles builds the style table shared by every Component
// logger: level badges plus coloring for the key vocabulary the
// dispatch core actually logs under — "phase"/"input" from the
// dispatcher's phase transitions, "command"/"actor" from a
// registered command and the actor driving it, "cooldown" from a
// blocked re-invocation, and "error" from any failure.
func componentStyles() *log.Styles {
	styles := log.DefaultStyles()

	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").Padding(0, 1, 0, 1).
		Background(lipgloss.Color("33")).Foreground(lipgloss.Color("15"))
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").Padding(0, 1, 0, 1).
		Background(lipgloss.Color("196")).Foreground(lipgloss.Color("15"))
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").Padding(0, 1, 0, 1).
		Background(lipgloss.Color("240")).Foreground(lipgloss.Color("15"))
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").Padding(0, 1, 0, 1).
		Background(lipgloss.Color("214")).Foreground(lipgloss.Color("15"))
	styles.Levels[log.FatalLevel] = lipgloss.NewStyle().
		SetString("FATAL").Padding(0, 1, 0, 1).
		Background(lipgloss.Color("88")).Foreground(lipgloss.Color("15"))

	styles.Keys["phase"] = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	styles.Keys["input"] = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styles.Keys["command"] = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	styles.Keys["actor"] = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	styles.Keys["cooldown"] = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styles.Values["phase"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	return styles
}

// Component creates a logger sharing Logger's output and level but
// tagged with prefix, for a single package (e.g. "dispatch", "tree")
// to log under its own name with the dispatch-core key styling above.
func Component(prefix string) *log.Logger {
	l := Logger.WithPrefix(prefix + " ")
	l.SetStyles(componentStyles())
	l.SetLevel(Logger.GetLevel())
	l.SetTimeFormat("")
	return l
}
