package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"radicais/internal/cli"
	"radicais/internal/core"
	gsheet "radicais/internal/sheets/google"
)

// sheets-init prepares the remote spreadsheet: it creates the Dizimos and
// Frequencia worksheets when missing and, with -seed, writes the default
// zero-filled ledgers for the configured roster.
func main() {
	seed := flag.Bool("seed", false, "write the default ledgers after creating worksheets")
	flag.Parse()

	cli.LoadEnvFile()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		log.Fatalf("sheets client: %v", err)
	}

	if err := client.EnsureWorksheets(ctx); err != nil {
		log.Fatalf("ensure worksheets: %v", err)
	}
	fmt.Println("Worksheets ready")

	if !*seed {
		return
	}

	tithes, attendance := core.BuildDefaultLedgers(core.DefaultRoster(), core.Months, core.ActivityTypes)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return client.WriteTithes(gctx, tithes) })
	g.Go(func() error { return client.WriteAttendance(gctx, attendance) })
	if err := g.Wait(); err != nil {
		log.Fatalf("seed ledgers: %v", err)
	}
	fmt.Printf("Seeded %d tithe rows and %d attendance rows\n", len(tithes), len(attendance))
}
