package logging

import (
	"io"
	"os"

	"github.com/anywhereworks/worklogs/internal/config"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the global logrus logger: level, formatter and an optional rotating file sink.
// LOG_LEVEL, when set, has already been applied by main and wins over the configured level.
func Setup(cfg config.Log) {
	if os.Getenv("LOG_LEVEL") == "" && cfg.Level != "" {
		level, err := log.ParseLevel(cfg.Level)
		if err != nil {
			log.Warnf("invalid log level %q, keeping %s: %v", cfg.Level, log.GetLevel(), err)
		} else {
			log.SetLevel(level)
		}
	}

	log.SetFormatter(formatterFor(os.Stderr))
	log.SetOutput(writerFor(cfg, os.Stderr))
}

func formatterFor(f *os.File) log.Formatter {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return &log.TextFormatter{FullTimestamp: true}
	}
	return &log.JSONFormatter{}
}

func writerFor(cfg config.Log, console io.Writer) io.Writer {
	if cfg.File == "" {
		return console
	}
	fileWriter := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}
	return io.MultiWriter(console, fileWriter)
}
