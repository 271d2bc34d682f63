package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mrz1836/customizer/internal/config"
	"github.com/mrz1836/customizer/internal/constants"
	"github.com/mrz1836/customizer/internal/logging"
)

// HomeEnvVar overrides the directory holding logs and the global config.
const HomeEnvVar = "CUSTOMIZER_HOME"

var (
	logFileWriter   io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup
	logFileWriterMu sync.Mutex     //nolint:gochecknoglobals // Protects logFileWriter
	zerologGlobalMu sync.Mutex     //nolint:gochecknoglobals // Protects zerolog global
)

// InitLogger creates the CLI logger.
//
// Levels: verbose=Debug, quiet=Warn, otherwise Info. A TTY on stderr gets a
// console writer; pipes and NO_COLOR get JSON. Every entry is also written to
// a rotating file (see LogFilePath). If that file cannot be opened logging
// continues on the console only. cfg may be nil.
func InitLogger(verbose, quiet bool, cfg *config.Config) zerolog.Logger {
	console := selectOutput()

	var writer io.Writer = console
	if fw, err := createLogFileWriter(cfg); err == nil {
		logFileWriterMu.Lock()
		if logFileWriter != nil {
			_ = logFileWriter.Close()
		}
		logFileWriter = fw
		logFileWriterMu.Unlock()
		writer = zerolog.MultiLevelWriter(console, fw)
	}

	logger := zerolog.New(writer).
		Level(selectLevel(verbose, quiet)).
		Hook(logging.NewSensitiveDataHook()).
		With().Timestamp().Logger()
	setGlobalLogger(logger)
	return logger
}

// InitLoggerWithWriter creates a logger writing only to w. Used by tests.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).
		Level(selectLevel(verbose, quiet)).
		Hook(logging.NewSensitiveDataHook()).
		With().Timestamp().Logger()
	setGlobalLogger(logger)
	return logger
}

// setGlobalLogger makes github.com/rs/zerolog/log use the CLI logger.
func setGlobalLogger(l zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = l
}

// CloseLogFile closes the log file writer if it was opened.
func CloseLogFile() {
	logFileWriterMu.Lock()
	defer logFileWriterMu.Unlock()
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" { //nolint:gosec // file descriptors fit in int
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// filteringWriteCloser redacts sensitive values before they reach disk.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

func (fwc *filteringWriteCloser) Write(p []byte) (int, error) {
	return fwc.filter.Write(p)
}

func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

// createLogFileWriter opens the rotating log file. Zero sizes fall back to
// the built-in rotation settings.
func createLogFileWriter(cfg *config.Config) (io.WriteCloser, error) {
	logPath, err := LogFilePath(cfg)
	if err != nil {
		return nil, err
	}
	var lc config.LogConfig
	if cfg != nil {
		lc = cfg.Log
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    orDefault(lc.MaxSizeMB, constants.LogMaxSizeMB),
		MaxBackups: orDefault(lc.MaxBackups, constants.LogMaxBackups),
		MaxAge:     orDefault(lc.MaxAgeDays, constants.LogMaxAgeDays),
		Compress:   true,
	}
	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}

// LogFilePath returns the CLI log file: log.file when configured, else
// $CUSTOMIZER_HOME/logs/customizer.log, else ~/.customizer/logs/customizer.log.
func LogFilePath(cfg *config.Config) (string, error) {
	if home := os.Getenv(HomeEnvVar); home != "" && (cfg == nil || cfg.Log.File == "") {
		return filepath.Join(home, constants.LogsDir, constants.LogFileName), nil
	}
	return config.LogFilePath(cfg)
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
