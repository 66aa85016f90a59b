package main

import (
	"context"
	"flag"
	"log"

	"github.com/k0kubun/pp/v3"

	"github.com/Joseda-hg/rememberbook/internal/config"
	"github.com/Joseda-hg/rememberbook/internal/db"
)

// Dumps every idea in the configured database, archived included.
func main() {
	dbPathFlag := flag.String("db", "", "sqlite db path")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dbPathFlag != "" {
		cfg.Database.Path = *dbPathFlag
	}

	sqlDB, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	store := db.NewStore(sqlDB)
	ideas, err := store.ListIdeas(context.Background())
	if err != nil {
		log.Fatalf("list ideas: %v", err)
	}

	pp.Print(ideas)
	log.Printf("%d ideas", len(ideas))
}
