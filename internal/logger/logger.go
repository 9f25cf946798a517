// Package logger configures the process-wide leveled logger.
package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"

	"github.com/op/go-logging"
)

// Module is the go-logging module name shared by every package.
const Module = "filedrop"

var levels = map[string]logging.Level{
	"CRITICAL": logging.CRITICAL,
	"ERROR":    logging.ERROR,
	"WARNING":  logging.WARNING,
	"NOTICE":   logging.NOTICE,
	"INFO":     logging.INFO,
	"DEBUG":    logging.DEBUG,
}

// ParseLevel maps a level name to a logging.Level. Unknown names yield INFO.
func ParseLevel(name string) logging.Level {
	if lvl, ok := levels[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return lvl
	}
	return logging.INFO
}

/*
Init creates the logger used across the service. When logDir is empty the
log goes to stderr, otherwise to <logDir>/<process>.log. It returns the
logger and the path of the log file ("" for stderr).
*/
func Init(logDir string, level logging.Level) (*logging.Logger, string, error) {
	var (
		writer   io.Writer = os.Stderr
		filename string
	)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, "", fmt.Errorf("create log directory: %w", err)
		}
		filename = filepath.Join(logDir, filepath.Base(os.Args[0])+".log")
		f, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, "", fmt.Errorf("open log file %q: %w", filename, err)
		}
		writer = f
	}

	backend := logging.NewLogBackend(writer, "", stdlog.LstdFlags|stdlog.LUTC)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter("[%{level}] %{message}"))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)

	return logging.MustGetLogger(Module), filename, nil
}
