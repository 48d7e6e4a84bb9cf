package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pressly/goose/v3"

	"golocales/config"
	"golocales/internal/pkg/database"
	"golocales/internal/pkg/logger"
)

// Aplica as migrações de sql/ no PostgreSQL (STORAGE_DRIVER=postgres).
func main() {
	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "./sql", "directory with migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("goose: configuração inválida", err)
	}
	log := logger.NewLogger(cfg.LogLevel)

	if cfg.StorageDriver != config.DriverPostgres {
		log.Fatal("goose: migrações só se aplicam ao driver postgres", fmt.Errorf("driver %q", cfg.StorageDriver))
	}

	db, err := database.NewPostgresDB(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("goose: failed to connect to DB", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("goose: failed to close DB", err)
		}
	}()

	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("goose: dialect", err)
	}

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}

	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if err := goose.RunContext(context.Background(), command, db, migrationsDir, args...); err != nil {
		log.Fatal(fmt.Sprintf("goose %v", command), err)
	}

	log.Info(fmt.Sprintf("goose %s success", command), nil)
}
