package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/notepid/twilight_qwk/internal/reader/app"
	"github.com/notepid/twilight_qwk/internal/reader/ui"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	logPath := flag.String("log", filepath.Join(os.TempDir(), "qwk-reader.log"), "path to log file")
	flag.Usage = func() {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [packet]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	a, cleanup, err := app.New(*configPath, flag.Arg(0), *logPath)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer cleanup()

	p := tea.NewProgram(ui.NewRootModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
