// Package logging owns the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"taskmaster/internal/config"
)

// Logger is the process-wide logger. It discards everything until Init runs.
var Logger = newDiscardLogger()

var (
	mu       sync.Mutex
	once     sync.Once
	closer   io.Closer
	writers  []io.Writer
	debugOut bool
)

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init configures Logger from cfg. The log file and level are set by the
// first call only; a later call with cfg.Debug still turns on debug output,
// so --debug works on any command of a shell session.
//
// With a log file configured, JSON entries go to a rotating file. With
// cfg.Debug, entries at debug level also go to errOut. Otherwise logs are
// dropped so interactive output stays clean.
func Init(cfg *config.Config, errOut io.Writer) {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()

		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}

		if cfg.LogFile != "" {
			file := &lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			}
			closer = file
			writers = append(writers, file)
			Logger.SetFormatter(jsonFormatter())
		}
		setOutput()
		Logger.SetLevel(level)
	})

	if cfg.Debug {
		enableDebug(errOut)
	}

	Logger.WithFields(logrus.Fields{
		"pid":      os.Getpid(),
		"log_file": cfg.LogFile,
		"level":    Logger.GetLevel().String(),
	}).Debug("logger initialized")
}

// enableDebug adds errOut as an output and lowers the level to debug.
// Only the first call has an effect.
func enableDebug(errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if debugOut || errOut == nil {
		return
	}
	debugOut = true

	if closer == nil {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}
	writers = append(writers, errOut)
	setOutput()
	Logger.SetLevel(logrus.DebugLevel)
}

// setOutput points Logger at the current writers. Caller must hold mu.
func setOutput() {
	switch len(writers) {
	case 0:
		Logger.SetOutput(io.Discard)
	case 1:
		Logger.SetOutput(writers[0])
	default:
		Logger.SetOutput(io.MultiWriter(writers...))
	}
}

// Close flushes and closes the log file, if any.
func Close() error {
	if closer == nil {
		return nil
	}
	return closer.Close()
}

// WithRequestID returns an entry tagged with the request id.
func WithRequestID(logger *logrus.Logger, requestID string) *logrus.Entry {
	if requestID == "" {
		return logrus.NewEntry(logger)
	}
	return logger.WithField("request_id", requestID)
}

func jsonFormatter() *logrus.JSONFormatter {
	return &logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	}
}
