// Package server parses server command flags and starts the game runtime.
package server

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/emberwake/emberwake/internal/game/content"
	"github.com/emberwake/emberwake/internal/game/engine"
	"github.com/emberwake/emberwake/internal/game/narrator"
	"github.com/emberwake/emberwake/internal/game/storage/sqlite"
	entrypoint "github.com/emberwake/emberwake/internal/platform/cmd"
	"github.com/emberwake/emberwake/internal/web"
)

// Config holds server command configuration.
type Config struct {
	Port   int    `env:"EMBERWAKE_SERVER_PORT" envDefault:"8080"`
	Addr   string `env:"EMBERWAKE_SERVER_ADDR"`
	DBPath string `env:"EMBERWAKE_DB_PATH" envDefault:"emberwake.db"`

	NarratorAPIKey  string `env:"EMBERWAKE_NARRATOR_API_KEY"`
	NarratorBaseURL string `env:"EMBERWAKE_NARRATOR_BASE_URL"`
	NarratorModel   string `env:"EMBERWAKE_NARRATOR_MODEL"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}()

		gen, err := narrator.NewClient(narrator.ClientConfig{
			APIKey:  cfg.NarratorAPIKey,
			BaseURL: cfg.NarratorBaseURL,
			Model:   cfg.NarratorModel,
		})
		if err != nil {
			return fmt.Errorf("configure narrator: %w", err)
		}

		tables, err := content.LoadTables()
		if err != nil {
			return fmt.Errorf("load content tables: %w", err)
		}

		eng, err := engine.New(engine.Config{
			Store:    store,
			Narrator: gen,
			Tables:   tables,
		})
		if err != nil {
			return fmt.Errorf("build engine: %w", err)
		}

		addr := cfg.Addr
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.Port)
		}

		srv, err := web.NewServer(web.Config{
			Addr:    addr,
			Handler: web.NewHandler(store, eng),
		})
		if err != nil {
			return fmt.Errorf("build web server: %w", err)
		}
		return srv.ListenAndServe(ctx)
	})
}
