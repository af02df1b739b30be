package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vasuvaghasia/formate/internal/audit"
	"github.com/vasuvaghasia/formate/internal/engine"
	"github.com/vasuvaghasia/formate/internal/styles"
)

func main() {
	root := &cobra.Command{
		Use:   "formate",
		Short: "Analyze and fix document formatting against a style template",
	}

	root.AddCommand(analyzeCmd())
	root.AddCommand(applyCmd())
	root.AddCommand(templatesCmd())
	root.AddCommand(historyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newEngine builds a synchronous engine for one-shot CLI invocations: quiet
// text logs on stderr, file-backed audit history, extra templates from
// templateDir when given.
func newEngine(templateDir string) (*engine.Engine, error) {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	reg := styles.NewRegistry()
	if templateDir != "" {
		if _, err := reg.LoadTemplateDir(templateDir); err != nil {
			return nil, err
		}
	}

	auditLog := audit.NewLogger(audit.NewFileKV(historyPath()), "cli", log)
	return engine.New(reg, auditLog, nil, log, engine.Options{WorkerCount: 1}), nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".formate", "history.json")
}
