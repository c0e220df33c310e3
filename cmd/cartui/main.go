package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"MiniCart/internal/catalog"
	"MiniCart/internal/config"
	"MiniCart/internal/tui"
	"MiniCart/pkg/kit"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "cartui:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := kit.NewFileLogger("cartui", cfg.LogLevel, getenv("CARTUI_LOG", "cartui.log"))
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = log.Sync() }()

	src, err := catalog.Open(cfg.CatalogURL, cfg.CatalogTimeout, log)
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(tui.New(catalog.NewLoader(src, log)), tea.WithAltScreen()).Run(); err != nil {
		log.Error("terminal view stopped", zap.Error(err))
		return err
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
