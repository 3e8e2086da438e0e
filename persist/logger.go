package persist

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is a leveled, file-and-stderr logger shared by every long-running
// component of walletd (the scan engine, the webhook dispatcher, the RPC
// facade). It wraps logrus rather than the standard library's log.Logger so
// that call sites can attach structured fields (account IDs, block ranges,
// chunk timings) instead of formatting them into the message by hand.
type Logger struct {
	*logrus.Logger
	file *os.File
}

// NewFileLogger creates a logger that writes to logFile, tagged with the
// given service name, and also writes to stderr when verbose is true. It
// always writes a STARTUP line so operators can tell where one run's log
// ends and the next begins.
func NewFileLogger(service, logFile string, verbose bool) (*Logger, error) {
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	var out io.Writer = f
	if verbose {
		out = io.MultiWriter(f, os.Stderr)
	}
	l.SetOutput(out)

	logger := &Logger{Logger: l, file: f}
	logger.WithField("service", service).Info("STARTUP: log file opened")
	return logger, nil
}

// Close writes a SHUTDOWN line and closes the underlying log file.
func (l *Logger) Close() error {
	l.Info("SHUTDOWN: log file closing")
	return l.file.Close()
}
