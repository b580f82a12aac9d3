// Command simulate drives the warehouse operations simulator end to end:
// load master data from Postgres, run the event-driven day loop (internal/engine)
// over a date range, and persist the resulting SimulationRunSummary.
//
// Tabular data ingestion and validation are explicitly out of scope for the
// simulator core — simulate assumes the
// item_master/staff_skill_master/workstation_capacity/route_schedule_master
// and historical_orders/historical_receiving tables are already populated.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warehousesim/core/internal/config"
	"github.com/warehousesim/core/internal/engine"
	"github.com/warehousesim/core/internal/masterdata"
	"github.com/warehousesim/core/internal/repository/postgres"
)

var (
	dsn         string
	startFlag   string
	endFlag     string
	seedFlag    int64
	verbose     bool
	metricsAddr string
)

func main() {
	root := &cobra.Command{
		Use:   "simulate",
		Short: "Run and validate warehouse operations simulations",
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", os.Getenv("WAREHOUSESIM_DSN"), "PostgreSQL connection string")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation over a date range and print its summary",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&startFlag, "start", "", "first simulated day (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&endFlag, "end", "", "last simulated day (YYYY-MM-DD, inclusive)")
	runCmd.Flags().Int64Var(&seedFlag, "seed", 1, "random seed for this run")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "if set, serve Prometheus metrics on this address for the run's duration (e.g. :9090)")
	_ = runCmd.MarkFlagRequired("start")
	_ = runCmd.MarkFlagRequired("end")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load master data and report structural issues without running the engine",
		RunE:  runValidate,
	}

	root.AddCommand(runCmd, validateCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openDatabase(ctx context.Context) (*postgres.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("--dsn (or WAREHOUSESIM_DSN) is required")
	}
	db, err := postgres.New(dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Health(ctx); err != nil {
		return nil, fmt.Errorf("database health check: %w", err)
	}
	return db, nil
}

func loadConfig(ctx context.Context, db *postgres.DB) (config.Config, error) {
	rows, err := db.ParameterRepository().GetAll(ctx)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading system parameters: %w", err)
	}
	return config.Bind(config.NewStore(rows)), nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	start, err := time.Parse("2006-01-02", startFlag)
	if err != nil {
		return fmt.Errorf("parsing --start: %w", err)
	}
	end, err := time.Parse("2006-01-02", endFlag)
	if err != nil {
		return fmt.Errorf("parsing --end: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	cfg, err := loadConfig(ctx, db)
	if err != nil {
		return err
	}

	data, err := masterdata.Load(ctx, db)
	if err != nil {
		return fmt.Errorf("loading master data: %w", err)
	}

	eng := engine.New(cfg, db, data, log)
	if err := eng.Initialize(start, end, seedFlag); err != nil {
		return fmt.Errorf("initializing engine: %w", err)
	}

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(eng.MetricsRegistry(), promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		defer srv.Close() //nolint:errcheck
	}

	results, err := eng.Run(ctx)
	if err != nil {
		return fmt.Errorf("running simulation: %w", err)
	}

	fmt.Printf("run %s: %s -> %s (seed %d)\n", results.RunID, results.StartedAt.Format("2006-01-02"), results.FinishedAt.Format("2006-01-02"), results.Seed)
	fmt.Printf("tasks completed: %d  cancelled: %d  late shipments: %d\n", results.TasksCompleted, results.TasksCancelled, results.LateShipments)
	fmt.Printf("exceptions raised: %d  overtime episodes: %d\n", results.ExceptionsRaised, results.OvertimeEpisodes)
	fmt.Println(results.Validation.Summary())

	if results.Validation.HasErrors() {
		os.Exit(1)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := loadConfig(ctx, db); err != nil {
		return err
	}

	data, err := masterdata.Load(ctx, db)
	if err != nil {
		return fmt.Errorf("loading master data: %w", err)
	}

	result := validateMasterData(data)
	fmt.Println(result.Summary())
	if result.HasErrors() {
		os.Exit(1)
	}
	return nil
}
