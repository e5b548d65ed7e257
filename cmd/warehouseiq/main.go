package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/warehouseiq/internal/alerts"
	"github.com/andresuchdata/warehouseiq/internal/bootstrap"
	"github.com/andresuchdata/warehouseiq/internal/config"
	"github.com/andresuchdata/warehouseiq/internal/domain"
	"github.com/andresuchdata/warehouseiq/internal/report"
	"github.com/andresuchdata/warehouseiq/pkg/logger"
)

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "brand", Usage: "Only include this brand"},
		&cli.StringFlag{Name: "category", Usage: "Only include this category"},
		&cli.StringFlag{Name: "location", Usage: "Only include this location"},
	}
}

func outFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Output file, stdout when empty",
	}
}

func initApp(c *cli.Context) error {
	cfg := config.Load()
	logger.Setup(c.String("log-level"), true)

	app, err := bootstrap.New(c.Context, cfg)
	if err != nil {
		return err
	}
	c.App.Metadata = map[string]interface{}{"app": app}
	return nil
}

func closeApp(c *cli.Context) error {
	if app, ok := c.App.Metadata["app"].(*bootstrap.App); ok && app != nil {
		app.Close()
	}
	return nil
}

func appFrom(c *cli.Context) *bootstrap.App {
	return c.App.Metadata["app"].(*bootstrap.App)
}

func main() {
	app := &cli.App{
		Name:  "warehouseiq",
		Usage: "Inventory reconciliation, exports and demand spike alerts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: initApp,
		After:  closeApp,
		Commands: []*cli.Command{
			{
				Name:   "export",
				Usage:  "Write the inventory matrix as CSV",
				Flags:  append(filterFlags(), outFlag()),
				Action: runExport,
			},
			{
				Name:   "reorder",
				Usage:  "Write the reorder report as CSV",
				Flags:  []cli.Flag{outFlag()},
				Action: runReorder,
			},
			{
				Name:  "spikes",
				Usage: "Print spiking regions and optionally publish alerts",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "publish", Usage: "Publish one alert per spiking region"},
				},
				Action: runSpikes,
			},
			{
				Name:   "upload-export",
				Usage:  "Upload the full inventory matrix to object storage",
				Action: runUploadExport,
			},
			{
				Name:   "list-exports",
				Usage:  "List uploaded matrix exports",
				Action: runListExports,
			},
			seedCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("warehouseiq failed")
	}
}

func output(c *cli.Context) (io.Writer, func() error, error) {
	path := c.String("out")
	if path == "" {
		return c.App.Writer, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}

func runExport(c *cli.Context) error {
	w, done, err := output(c)
	if err != nil {
		return err
	}
	filter := domain.InventoryFilter{
		Brand:    c.String("brand"),
		Category: c.String("category"),
		Location: c.String("location"),
	}
	if err := appFrom(c).Service.ExportMatrix(c.Context, filter, w); err != nil {
		done()
		return err
	}
	return done()
}

func runReorder(c *cli.Context) error {
	w, done, err := output(c)
	if err != nil {
		return err
	}
	if err := appFrom(c).Service.ExportReorder(c.Context, w); err != nil {
		done()
		return err
	}
	return done()
}

func runSpikes(c *cli.Context) error {
	app := appFrom(c)
	signals, err := app.Service.SpikeSignals(c.Context, true)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report.GeoOverlay(signals)); err != nil {
		return err
	}

	if !c.Bool("publish") {
		return nil
	}
	publisher := app.Publisher()
	return publisher.Publish(c.Context, alerts.FromSignals(signals, time.Now()))
}

func runUploadExport(c *cli.Context) error {
	app := appFrom(c)
	if app.Store == nil {
		return fmt.Errorf("upload-export requires STORAGE_ENDPOINT")
	}
	key, err := app.Scheduler().UploadExport(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, key)
	return nil
}

func runListExports(c *cli.Context) error {
	app := appFrom(c)
	if app.Store == nil {
		return fmt.Errorf("list-exports requires STORAGE_ENDPOINT")
	}
	objects, err := app.Store.ListObjects(c.Context, app.Config.Scheduler.ExportPrefix)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		fmt.Fprintf(c.App.Writer, "%s\t%d\n", obj.Key, obj.Size)
	}
	return nil
}
