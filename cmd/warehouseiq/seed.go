package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/warehouseiq/internal/cache"
	"github.com/andresuchdata/warehouseiq/internal/forecast"
	"github.com/andresuchdata/warehouseiq/internal/repository"
	"github.com/andresuchdata/warehouseiq/pkg/logger"
)

func seedCommand() *cli.Command {
	fileFlag := func(value string) *cli.StringFlag {
		return &cli.StringFlag{
			Name:  "file",
			Usage: "CSV file to load",
			Value: value,
		}
	}

	return &cli.Command{
		Name:  "seed",
		Usage: "Load CSV data into Postgres",
		Subcommands: []*cli.Command{
			{
				Name:   "inventory",
				Usage:  "Replace the inventory snapshot table",
				Flags:  []cli.Flag{fileFlag("./data/inventory.csv")},
				Action: seedInventory,
			},
			{
				Name:   "forecasts",
				Usage:  "Append a forecast run to demand_forecasts",
				Flags:  []cli.Flag{fileFlag("./data/forecasts.csv")},
				Action: seedForecasts,
			},
		},
	}
}

func seedInventory(c *cli.Context) error {
	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("open inventory file: %w", err)
	}
	defer f.Close()

	snap, err := repository.DecodeInventoryCSV(f)
	if err != nil {
		return err
	}
	for _, rejected := range snap.Rejected {
		logger.Log.Warn().Str("sku", rejected.SKU).Str("reason", rejected.Reason).Msg("skipping inventory row")
	}

	db, err := appFrom(c).Database()
	if err != nil {
		return err
	}
	if err := db.EnsureSchema(c.Context); err != nil {
		return err
	}
	if err := db.ReplaceSnapshot(c.Context, snap.Records); err != nil {
		return err
	}

	logger.Log.Info().
		Int("records", len(snap.Records)).
		Int("rejected", len(snap.Rejected)).
		Msg("inventory snapshot seeded")
	return nil
}

func seedForecasts(c *cli.Context) error {
	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("open forecast file: %w", err)
	}
	defer f.Close()

	forecasts, err := forecast.ReadForecastCSV(f)
	if err != nil {
		return err
	}

	app := appFrom(c)
	db, err := app.Database()
	if err != nil {
		return err
	}
	if err := db.EnsureSchema(c.Context); err != nil {
		return err
	}

	pool, err := app.Pool(c.Context)
	if err != nil {
		return err
	}

	copied, err := pool.CopyFrom(
		c.Context,
		pgx.Identifier{"demand_forecasts"},
		[]string{"sku", "point_forecast"},
		pgx.CopyFromRows(forecastRows(forecasts)),
	)
	if err != nil {
		return fmt.Errorf("copy forecasts: %w", err)
	}

	logger.Log.Info().Int64("rows", copied).Msg("forecast run seeded")

	// A new run over the same SKU set keeps the snapshot version, so cached
	// forecasts would otherwise outlive it.
	forecastCache, err := cache.NewForecastCache(app.Config.Cache)
	if err != nil {
		return fmt.Errorf("connect forecast cache: %w", err)
	}
	return forecastCache.InvalidateAll(c.Context)
}

// forecastRows orders rows by SKU so repeated seeds copy in a stable order.
func forecastRows(forecasts map[string]float64) [][]any {
	skus := make([]string, 0, len(forecasts))
	for sku := range forecasts {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	rows := make([][]any, 0, len(skus))
	for _, sku := range skus {
		rows = append(rows, []any{sku, forecasts[sku]})
	}
	return rows
}
