// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds a logger named [name] that writes to stderr (unless
// display is disabled) and, when a directory is configured, to a rotating
// file. The returned logger must be stopped by the caller.
func NewLogger(cfg LogConfig, name string) (logging.Logger, error) {
	level, err := logging.ToLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var consoleWriter io.WriteCloser = nopCloser{io.Discard}
	if cfg.Display {
		consoleWriter = nopCloser{os.Stderr}
	}
	consoleCore := logging.NewWrappedCore(level, consoleWriter, logging.Colors.ConsoleEncoder())
	consoleCore.WriterDisabled = !cfg.Display
	cores := []logging.WrappedCore{consoleCore}

	if len(cfg.Directory) > 0 {
		format := logging.Plain
		if cfg.JSONFormat {
			format = logging.JSON
		}
		rw := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Directory, name+".log"),
			MaxSize:    cfg.MaxSize,  // megabytes
			MaxAge:     cfg.MaxAge,   // days
			MaxBackups: cfg.MaxFiles, // files
			Compress:   cfg.Compress,
		}
		cores = append(cores, logging.NewWrappedCore(level, rw, format.FileEncoder()))
	}
	return logging.NewLogger(name, cores...), nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
