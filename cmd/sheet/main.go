// Package main provides the character sheet CLI.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	sheetcmd "github.com/louisbranch/kisheet/internal/cmd/sheet"
	"github.com/louisbranch/kisheet/internal/platform/config"
	apperrors "github.com/louisbranch/kisheet/internal/platform/errors"
)

func main() {
	log.SetPrefix("[SHEET] ")
	cfg, err := sheetcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sheetcmd.Run(ctx, cfg, os.Stdout); err != nil {
		stop()
		config.ExitCodef(apperrors.ExitCode(err), "Error: %s", apperrors.LocalizedMessage(err, cfg.Locale))
	}
}
