package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Joseda-hg/rememberbook/internal/config"
	"github.com/Joseda-hg/rememberbook/internal/db"
	"github.com/Joseda-hg/rememberbook/internal/tui"
	"github.com/Joseda-hg/rememberbook/internal/web"
)

func main() {
	dbPathFlag := flag.String("db", "", "sqlite db path")
	portFlag := flag.Int("port", 0, "http server port")
	tuiFlag := flag.Bool("tui", false, "open the terminal ui alongside the server")
	noSeedFlag := flag.Bool("no-seed", false, "skip first-run sample data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if *dbPathFlag != "" {
		cfg.Database.Path = *dbPathFlag
	}
	if *portFlag != 0 {
		cfg.Server.Port = *portFlag
	}
	if *tuiFlag {
		cfg.TUI.Enabled = true
	}
	if *noSeedFlag {
		cfg.Seed = false
	}

	store, err := openStore(cfg.Database.Path)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Seed {
		if err := seedIfEmpty(store); err != nil {
			log.Fatal(err)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	handler := web.NewServer(store).Handler()

	log.Printf("Remember Book API server starting")
	log.Printf("Using database file: %s", cfg.Database.Path)
	log.Printf("Listening on: http://localhost%s", addr)

	if !cfg.TUI.Enabled {
		log.Fatal(http.ListenAndServe(addr, handler))
	}

	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			log.Printf("web server error: %v", err)
		}
	}()

	if err := tui.Run(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore(dbPath string) (*db.Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return db.NewStore(sqlDB), nil
}

func seedIfEmpty(store *db.Store) error {
	empty, err := store.IsEmpty(context.Background())
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}
	log.Printf("Empty database, seeding sample ideas")
	return store.Seed(context.Background())
}
