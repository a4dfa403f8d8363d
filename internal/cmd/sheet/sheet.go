// Package sheet wires the character sheet command: configuration, storage,
// catalogs and the subcommands that drive a play session.
package sheet

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	platformcmd "github.com/louisbranch/kisheet/internal/platform/cmd"
	"github.com/louisbranch/kisheet/internal/sheet/play"
	"github.com/louisbranch/kisheet/internal/sheet/rules"
	"github.com/louisbranch/kisheet/internal/sheet/slots"
	"github.com/louisbranch/kisheet/internal/sheet/storage/sqlite"
	"github.com/louisbranch/kisheet/internal/sheet/store"
)

// Config holds sheet command configuration.
type Config struct {
	DBPath     string `env:"DB_PATH"     envDefault:"data/kisheet.db"`
	CatalogDir string `env:"CATALOG_DIR"`
	Locale     string `env:"LOCALE"      envDefault:"en-US"`

	// Command and Args are the positional arguments after the flags.
	Command string
	Args    []string
}

// ParseConfig loads the environment and then lets flags override it.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to the sqlite database")
	fs.StringVar(&cfg.CatalogDir, "catalog-dir", cfg.CatalogDir, "directory of catalog files (empty uses built-in data)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for error messages")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Command, cfg.Args = platformcmd.SplitCommand(fs.Args())
	if cfg.Command == "" {
		cfg.Command = "show"
	}
	return cfg, nil
}

// Run opens the sheet and executes the configured command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceSheet, func(ctx context.Context) error {
		return run(ctx, cfg, out)
	}, platformcmd.WithCommand(cfg.Command))
}

func run(ctx context.Context, cfg Config, out io.Writer) error {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	catalogs := loadCatalogs(cfg.CatalogDir)
	state := store.New(db, play.ClampResources(catalogs))
	if err := state.Load(ctx); err != nil {
		return err
	}

	a := &app{
		out:     out,
		in:      os.Stdin,
		state:   state,
		session: play.NewSession(state, catalogs, nil, nil),
		slots:   slots.NewService(db, state),
	}
	if _, err := a.session.CorrectActiveForm(ctx); err != nil {
		return err
	}
	return a.dispatch(ctx, cfg.Command, cfg.Args)
}

func loadCatalogs(dir string) rules.Catalogs {
	if dir == "" {
		return rules.Fallback()
	}
	catalogs, err := rules.LoadDir(dir)
	if err != nil {
		log.Printf("catalogs: %v", err)
	}
	return catalogs
}
