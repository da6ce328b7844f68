package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/2beens/practicetrack/internal/config"
	"github.com/2beens/practicetrack/internal/csvimport"
	"github.com/2beens/practicetrack/internal/db"
	"github.com/2beens/practicetrack/internal/practice"

	log "github.com/sirupsen/logrus"
)

// csv import cmd, one-off backfill of practice sessions from a csv export

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	csvPath := flag.String("file", "", "path to the csv file with practice sessions")
	flag.Parse()

	if *csvPath == "" {
		log.Fatalln("csv file not specified, use -file")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	csvFile, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv file: %s", err)
	}
	defer func() {
		if err := csvFile.Close(); err != nil {
			log.Warnf("close csv file: %s", err)
		}
	}()

	importer := csvimport.NewImporter(practice.NewRepo(dbPool))
	report, err := importer.Import(ctx, csvFile)
	if err != nil {
		log.Fatalf("import failed: %s", err)
	}

	fmt.Printf("imported: %d, skipped: %d\n", report.Imported, report.Skipped)
	for _, importErr := range report.Errors {
		fmt.Printf("  - %s\n", importErr)
	}
}
