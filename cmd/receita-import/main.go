package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"receita/internal/cli"
	"receita/internal/dataset"
	applog "receita/internal/log"
	"receita/internal/source"
	gsheet "receita/internal/source/google"
	"receita/internal/source/memory"
)

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentImport)

	file := flag.String("file", "", "semicolon-delimited revenue file to import")
	fromSheets := flag.Bool("sheets", false, "import from the Google spreadsheet configured in the environment")
	seed := flag.Bool("embedded", false, "import the embedded sample dataset")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "SQLite database path")
	dryRun := flag.Bool("dry-run", false, "validate only, do not write")
	flag.Parse()

	ctx, cancel := context.WithTimeout(applog.NewContext(context.Background(), logger), 5*time.Minute)
	defer cancel()

	reader, name, err := chooseSource(ctx, *file, *fromSheets, *seed)
	if err != nil {
		logger.Error("Invalid import source", applog.FieldError, err)
		flag.Usage()
		os.Exit(2)
	}
	logger.Info("Starting import", applog.FieldSource, name, applog.FieldOperation, applog.OpImport)

	raw, err := reader.ReadRows(ctx)
	if err != nil {
		logger.Error("Failed to read rows", applog.FieldError, err, applog.FieldSource, name)
		os.Exit(1)
	}
	_, stats, err := dataset.Normalize(raw)
	if err != nil {
		logger.Error("Dataset rejected", applog.FieldError, err, applog.FieldSource, name)
		os.Exit(1)
	}
	logger.Info("Dataset validated",
		applog.FieldRows, stats.Rows,
		"invalid_dates", stats.InvalidDates,
		"invalid_money_cells", stats.InvalidMoneyCells,
		"missing_money_columns", stats.MissingMoneyColumns)

	if *dryRun {
		fmt.Printf("Dry run: %d rows would be imported from %s.\n", stats.Rows, name)
		return
	}

	repo := cli.InitSQLite(logger, *dbPath)
	defer repo.Close()

	n, err := repo.ReplaceRows(ctx, raw)
	if err != nil {
		logger.Error("Import failed", applog.FieldError, err, "path", *dbPath)
		os.Exit(1)
	}
	logger.Info("Import completed", applog.FieldRows, n, "path", *dbPath)
	fmt.Printf("Imported %d rows into %s.\n", n, *dbPath)
}

// chooseSource returns the reader for exactly one of the source flags.
func chooseSource(ctx context.Context, file string, fromSheets, seed bool) (source.RowsReader, string, error) {
	chosen := 0
	for _, set := range []bool{file != "", fromSheets, seed} {
		if set {
			chosen++
		}
	}
	if chosen != 1 {
		return nil, "", fmt.Errorf("exactly one of -file, -sheets or -embedded is required")
	}

	switch {
	case file != "":
		store, err := memory.NewFromFile(file)
		if err != nil {
			return nil, "", err
		}
		return store, file, nil
	case fromSheets:
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return nil, "", err
		}
		return client, "sheets", nil
	default:
		return memory.NewEmbedded(), "embedded", nil
	}
}
