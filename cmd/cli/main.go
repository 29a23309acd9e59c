package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/BirkeyCo/nixables/internal/app"
	"github.com/BirkeyCo/nixables/internal/cli"
	"github.com/BirkeyCo/nixables/internal/fsutil"
	"github.com/BirkeyCo/nixables/internal/generr"
)

// main is the entrypoint for the nixables application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	return runWithFS(outW, args, fsutil.NewOS())
}

func runWithFS(outW io.Writer, args []string, fs fsutil.FS) error {
	appConfig, shouldExit, err := cli.Parse(args, outW, fs)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	nixApp := app.NewApp(outW, appConfig, fs)
	if _, err := nixApp.Run(context.Background()); err != nil {
		return &cli.ExitError{Code: cli.ExitFailure, Message: describe(err)}
	}
	return nil
}

// describe renders a generation failure for the terminal. Recipe authoring
// errors get one line; anything unexpected also gets its cause chain.
func describe(err error) string {
	msg := "error: " + err.Error()
	if generr.Expected(err) {
		return msg
	}
	return msg + "\n" + generr.Trace(err)
}
