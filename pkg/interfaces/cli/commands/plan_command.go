package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/mrpcore/pkg/application/dto"
	"github.com/vsinha/mrpcore/pkg/application/services/collector"
	"github.com/vsinha/mrpcore/pkg/application/services/orchestration"
	"github.com/vsinha/mrpcore/pkg/infrastructure/clock"
	"github.com/vsinha/mrpcore/pkg/infrastructure/events"
	"github.com/vsinha/mrpcore/pkg/infrastructure/metrics"
	"github.com/vsinha/mrpcore/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/mrpcore/pkg/interfaces/cli/output"
)

type planOptions struct {
	facility string
	horizon  int
	mode     string
	scenario string
	format   string
	output   string
	verbose  bool
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run MRP for a facility and print the plan",
		Long: `Run MRP for one facility from a scenario directory of CSV files:

    products.csv     facility_id,product_id,description,lead_time_days,lot_size_rule,lot_size,min_qty,max_qty,increment,safety_stock,procurement
    components.csv   facility_id,parent_id,child_id,qty_per,effective_from,effective_to
    inventory.csv    facility_id,product_id,on_hand
    receipts.csv     facility_id,product_id,quantity,available_date,reference
    demand.csv       facility_id,product_id,quantity,due_date,kind,reference

Only products.csv is required. The exit code is the run's result code:
0 success, 1 success with exceptions, 2 invalid input, 3 fatal error,
4 a run is already in progress for the facility.`,
		Example: `  mrp plan --facility PLANT1 --scenario example/launcher --horizon 240
  mrp plan --facility PLANT1 --scenario example/launcher --mode net-change --format json
  mrp plan --facility PLANT1 --scenario example/launcher --horizon 240 --format csv --output results/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.facility, "facility", "", "Facility to plan (required)")
	cmd.Flags().IntVar(&opts.horizon, "horizon", 0, "Planning horizon in days (default: planning.default_horizon_days)")
	cmd.Flags().StringVar(&opts.mode, "mode", "regenerate", "Run mode: regenerate or net-change")
	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "Scenario directory containing CSV files (required)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, json, csv")
	cmd.Flags().StringVar(&opts.output, "output", "", "Output directory for results (optional)")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose output")

	_ = cmd.MarkFlagRequired("facility")
	_ = cmd.MarkFlagRequired("scenario")

	return cmd
}

func runPlan(cmd *cobra.Command, root *rootOptions, opts planOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(root)
	if err != nil {
		return err
	}
	defer rt.Close()
	logger := rt.logger

	horizon := opts.horizon
	if !cmd.Flags().Changed("horizon") {
		horizon = rt.config.Planning.DefaultHorizonDays
	}
	consumption, err := collector.ParseForecastConsumption(rt.config.Planning.ForecastConsumption)
	if err != nil {
		return withCode(exitUsage, err)
	}

	dataset, err := csv.NewLoader().LoadDirectory(opts.scenario)
	if err != nil {
		return withCode(int(dto.CodeInvalidInput), fmt.Errorf("loading scenario: %w", err))
	}

	store := events.NewInMemoryEventStore(logger)
	handler := events.NewLogHandler(logger)
	eventTypes := []string{events.PlanStartedEvent, events.PlanCompletedEvent, events.PlanAbortedEvent}
	if err := store.Subscribe(eventTypes, handler); err != nil {
		return withCode(int(dto.CodeFatal), err)
	}

	demandCollector := collector.NewCollector(dataset.Demand, dataset.Inventory, collector.Config{
		BucketDays:          rt.config.Planning.BucketDays,
		ForecastConsumption: consumption,
	}, logger)

	runMetrics := metrics.NewRunMetrics()
	orchestrator := orchestration.NewOrchestrator(orchestration.Dependencies{
		Catalog:   dataset.Catalog,
		Collector: demandCollector,
		Plans:     rt.plans,
		Publisher: store,
		Clock:     clock.System(),
		Metrics:   runMetrics,
		Logger:    logger,
	}, orchestration.Config{
		BucketDays: rt.config.Planning.BucketDays,
		Workers:    rt.config.Planning.Workers,
	})
	runner := orchestration.NewRunner(orchestrator, rt.guard, logger)

	startTime := time.Now()
	result := runner.RunPlan(ctx, opts.facility, horizon, opts.mode)
	runTime := time.Since(startTime)
	store.Wait()

	logger.Info("mrp run finished",
		zap.String("facility_id", opts.facility),
		zap.String("result", result.Code.String()),
		zap.Duration("elapsed", runTime))
	rt.pushMetrics(context.WithoutCancel(ctx), runMetrics, opts.facility)

	err = output.Generate(result, output.Config{
		Format:    opts.format,
		OutputDir: opts.output,
		Verbose:   opts.verbose,
		RunTime:   runTime,
		Writer:    cmd.OutOrStdout(),
	})
	if err != nil {
		return withCode(int(dto.CodeFatal), fmt.Errorf("error generating output: %w", err))
	}

	if result.Code != dto.CodeSuccess {
		return withCode(int(result.Code), nil)
	}
	return nil
}
