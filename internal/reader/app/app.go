// Package app holds the state shared by the reader screens.
package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/notepid/twilight_qwk/internal/config"
	"github.com/notepid/twilight_qwk/internal/logger"
	"github.com/notepid/twilight_qwk/internal/packet"
)

type App struct {
	ConfigPath string
	Config     *config.Config

	PacketPath string
	Packet     *packet.Packet

	// ShowAll lists every reconstructed thread instead of top-level ones only.
	ShowAll bool
}

// New loads the configuration and, when packetPath is set, the packet. The
// terminal belongs to the UI, so logs go to logPath.
func New(configPath, packetPath, logPath string) (*App, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	if err := logger.InitWriter(cfg.Logging, logFile); err != nil {
		_ = logFile.Close()
		return nil, nil, err
	}

	a := &App{
		ConfigPath: configPath,
		Config:     cfg,
		ShowAll:    cfg.Reader.ShowAllThreads,
	}

	cleanup := func() {
		logger.Sync()
		_ = logFile.Close()
	}

	if packetPath != "" {
		if err := a.Open(packetPath); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return a, cleanup, nil
}

// Open replaces the current packet. On error the previous packet is kept.
func (a *App) Open(path string) error {
	p, err := packet.Open(path)
	if err != nil {
		logger.Warn("open packet failed", zap.String("path", path), zap.Error(err))
		return err
	}
	a.PacketPath = path
	a.Packet = p
	return nil
}
