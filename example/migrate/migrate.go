package main

import (
	"errors"
	"flag"
	"fmt"
	"github.com/golang-migrate/migrate/v4"
	"github.com/swdee/go-posecoach/config"
	"github.com/swdee/go-posecoach/store"
	"log"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	cfgFile := flag.String("c", "../data/posecoach.toml", "Configuration file (TOML or YAML)")
	dsn := flag.String("dsn", "", "Database connection string, overrides the configuration")
	up := flag.Bool("up", false, "Run all up migrations")
	down := flag.Bool("down", false, "Run all down migrations")
	steps := flag.Int("steps", 0, "Number of migrations (positive=up, negative=down)")
	version := flag.Bool("version", false, "Print current migration version")
	force := flag.Int("force", -1, "Force set version (use with caution)")
	flag.Parse()

	forceSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "force" {
			forceSet = true
		}
	})

	if *dsn == "" {
		cfg, err := config.Load(*cfgFile)

		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}

		*dsn = cfg.Store.DSN
	}

	if *dsn == "" {
		log.Fatal("No database connection string, set -dsn or POSECOACH_DB_DSN")
	}

	m, err := store.Migrator(*dsn)

	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	defer m.Close()

	switch {
	case *version:
		v, dirty, err := m.Version()

		if err != nil {
			log.Fatalf("failed to get version: %v", err)
		}

		fmt.Printf("version: %d, dirty: %v\n", v, dirty)

	case forceSet:
		if err := m.Force(*force); err != nil {
			log.Fatalf("failed to force version: %v", err)
		}

		fmt.Printf("forced to version %d\n", *force)

	case *up:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("failed to run up migrations: %v", err)
		}

		fmt.Println("migrations applied successfully")

	case *down:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("failed to run down migrations: %v", err)
		}

		fmt.Println("migrations reverted successfully")

	case *steps != 0:
		if err := m.Steps(*steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("failed to run migrations: %v", err)
		}

		fmt.Printf("applied %d migration steps\n", *steps)

	default:
		fmt.Println("usage: migrate [-c config] [-dsn <connection-string>] [-up|-down|-steps N|-version|-force N]")
		flag.PrintDefaults()
	}
}
