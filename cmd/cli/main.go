package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/infra/initializer"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/app"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/config"
	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	// The shell owns stdout; keep the logger quiet unless asked otherwise.
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Log.Level = 8
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	ledger := app.New(deps, cfg)
	ctx := context.Background()
	defer func() {
		if err := ledger.Close(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "Error saving state:", err)
		}
	}()
	if err := ledger.Load(ctx); err != nil {
		return err
	}

	sh := newShell(ledger.Bank, color.Output)

	// One-shot mode: cli deposit <id> 100
	if len(os.Args) > 1 {
		sh.execArgs(os.Args[1:])
		return nil
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		color.New(color.FgCyan, color.Bold).Fprintln(color.Output, "Ledger shell. Type help for commands.")
	}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Fprint(color.Output, "ledger> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if sh.exec(scanner.Text()) {
			return nil
		}
	}
}
