package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/mrpcore/pkg/application/services/cascade"
	"github.com/vsinha/mrpcore/pkg/application/services/collector"
	"github.com/vsinha/mrpcore/pkg/application/services/netting"
	"github.com/vsinha/mrpcore/pkg/application/snapshot"
	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/domain/repositories"
	"github.com/vsinha/mrpcore/pkg/domain/services"
	"github.com/vsinha/mrpcore/pkg/infrastructure/clock"
	"github.com/vsinha/mrpcore/pkg/infrastructure/events"
	"github.com/vsinha/mrpcore/pkg/infrastructure/metrics"
)

// Config holds orchestration settings
type Config struct {
	BucketDays int
	Workers    int
}

// Request asks for one planning run
type Request struct {
	FacilityID  string
	HorizonDays int
	Mode        entities.RunMode
}

// Dependencies are the collaborators of an Orchestrator. Clock, NewID, Metrics
// and Logger are optional.
type Dependencies struct {
	Catalog   repositories.CatalogSource
	Collector *collector.Collector
	Plans     repositories.PlanRepository
	Publisher events.Publisher
	Clock     clock.Clock
	NewID     func() string
	Metrics   *metrics.RunMetrics
	Logger    *zap.Logger
}

// Orchestrator drives a run through Collecting, LevelAssigned and Netting to
// Finalized, or to Aborted on a fatal error or cancellation
type Orchestrator struct {
	catalog   repositories.CatalogSource
	collector *collector.Collector
	plans     repositories.PlanRepository
	publisher events.Publisher
	clock     clock.Clock
	newID     func() string
	metrics   *metrics.RunMetrics
	logger    *zap.Logger
	config    Config
}

// NewOrchestrator creates a new plan orchestrator
func NewOrchestrator(deps Dependencies, config Config) *Orchestrator {
	if config.BucketDays < 1 {
		config.BucketDays = 1
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Orchestrator{
		catalog:   deps.Catalog,
		collector: deps.Collector,
		plans:     deps.Plans,
		publisher: deps.Publisher,
		clock:     deps.Clock,
		newID:     deps.NewID,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		config:    config,
	}
}

// run is the state of one planning run. It is owned by the goroutine calling Run.
type run struct {
	request Request
	now     time.Time
	horizon entities.Horizon
	state   entities.RunState
	started time.Time
	logger  *zap.Logger
}

func (r *run) transition(next entities.RunState, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.String("from", r.state.String()),
		zap.String("to", next.String()),
	}, fields...)
	r.logger.Info("mrp run transition", fields...)
	r.state = next
}

// Run executes one planning run. A cancelled or failed run returns no plan;
// the error is one of the typed errors in entities or a context error.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*entities.MrpPlan, error) {
	if req.FacilityID == "" {
		return nil, fmt.Errorf("%w: facility id cannot be empty", entities.ErrInvalidInput)
	}
	now := o.clock.Now()
	horizon, err := entities.NewHorizon(now, req.HorizonDays)
	if err != nil {
		return nil, err
	}

	r := &run{
		request: req,
		now:     now,
		horizon: horizon,
		state:   entities.Collecting,
		started: time.Now(),
		logger: o.logger.With(
			zap.String("facility_id", req.FacilityID),
			zap.String("mode", req.Mode.String())),
	}
	r.logger.Info("mrp run started", zap.String("horizon", horizon.String()))
	o.publish(r, events.PlanStartedEvent, events.PlanStarted{
		FacilityID: req.FacilityID,
		Mode:       req.Mode.String(),
		Horizon:    horizon,
	})

	plan, err := o.execute(ctx, r)
	if err != nil {
		o.abort(r, err)
		return nil, err
	}
	return plan, nil
}

func (o *Orchestrator) execute(ctx context.Context, r *run) (*entities.MrpPlan, error) {
	facilityID := r.request.FacilityID

	snap, err := snapshot.Build(ctx, o.catalog, facilityID, r.horizon)
	if err != nil {
		return nil, err
	}
	demand, supply, err := o.collector.Collect(ctx, snap, facilityID, r.horizon)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	levels, err := services.AssignLevels(planningProducts(snap, demand), snap.Edges())
	if err != nil {
		return nil, err
	}
	order := services.LevelOrder(levels)
	o.metrics.SetLevels(len(order))
	r.transition(entities.LevelAssigned,
		zap.Int("levels", len(order)),
		zap.Int("products", len(levels)),
		zap.Int("demand_events", len(demand)),
		zap.Int("supply_events", len(supply)))

	demandBy := groupDemand(demand)
	supplyBy := groupSupply(supply)
	engine := netting.NewEngine(snap, netting.Config{
		Now:        r.now,
		Horizon:    r.horizon,
		BucketDays: o.config.BucketDays,
	})

	var (
		orders     []entities.PlannedOrder
		exceptions []entities.PlanException
	)
	for level, products := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.state != entities.Netting {
			r.transition(entities.Netting, zap.Int("level", level))
		} else {
			r.logger.Debug("netting level", zap.Int("level", level), zap.Int("products", len(products)))
		}

		results, err := o.netLevel(ctx, engine, facilityID, products, demandBy, supplyBy)
		if err != nil {
			return nil, err
		}

		// Results are merged in product order so the plan does not depend on scheduling
		for _, result := range results {
			for _, planned := range result.PlannedOrders {
				planned.Level = level
				orders = append(orders, planned)
			}
			exceptions = append(exceptions, result.Exceptions...)
			for child, increments := range cascade.CascadeAll(result.PlannedOrders, snap) {
				demandBy[child] = append(demandBy[child], increments...)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return o.finalize(ctx, r, orders, exceptions)
}

// netLevel nets every product of one level on the worker pool. Each worker
// reads only its own product's slices and writes only its own result slot.
func (o *Orchestrator) netLevel(
	ctx context.Context,
	engine *netting.Engine,
	facilityID string,
	products []string,
	demandBy map[string][]entities.DemandEvent,
	supplyBy map[string][]entities.SupplyEvent,
) ([]netting.Result, error) {
	results := make([]netting.Result, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.Workers)
	for i, productID := range products {
		productDemand := demandBy[productID]
		productSupply := supplyBy[productID]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = engine.Net(productID, facilityID, productDemand, productSupply)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (o *Orchestrator) finalize(
	ctx context.Context,
	r *run,
	orders []entities.PlannedOrder,
	exceptions []entities.PlanException,
) (*entities.MrpPlan, error) {
	for i := range orders {
		orders[i].Line = i + 1
	}
	if exceptions == nil {
		exceptions = []entities.PlanException{}
	}

	plan := &entities.MrpPlan{
		PlanID:        o.newID(),
		FacilityID:    r.request.FacilityID,
		Mode:          r.request.Mode,
		Horizon:       r.horizon,
		BucketDays:    o.config.BucketDays,
		GeneratedAt:   r.now,
		PlannedOrders: orders,
		Exceptions:    exceptions,
	}

	if r.request.Mode == entities.NetChange {
		previous, err := o.plans.Latest(ctx, r.request.FacilityID)
		switch {
		case err == nil:
			plan.PreviousPlanID = previous.PlanID
			plan.Changes = DiffPlans(previous, plan)
		case errors.Is(err, repositories.ErrPlanNotFound):
			plan.Changes = DiffPlans(nil, plan)
		default:
			return nil, &entities.CollectionError{Source: "previous plan", Err: err}
		}
	}

	if err := o.plans.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("saving plan %s: %w", plan.PlanID, err)
	}

	r.transition(entities.Finalized,
		zap.String("plan_id", plan.PlanID),
		zap.Int("orders", len(plan.PlannedOrders)),
		zap.Int("exceptions", len(plan.Exceptions)),
		zap.Int("changes", len(plan.Changes)))
	o.publish(r, events.PlanCompletedEvent, events.NewPlanCompleted(plan))

	outcome := metrics.OutcomeSuccess
	if len(plan.Exceptions) > 0 {
		outcome = metrics.OutcomePartial
	}
	o.metrics.ObserveRun(r.request.Mode.String(), outcome, time.Since(r.started))
	o.metrics.AddOrders(len(plan.PlannedOrders))
	for _, exc := range plan.Exceptions {
		o.metrics.AddException(string(exc.Kind))
	}

	return plan, nil
}

func (o *Orchestrator) abort(r *run, err error) {
	exc := entities.ExceptionFromError(err)
	r.transition(entities.Aborted, zap.String("reason", string(exc.Kind)), zap.Error(err))

	o.publish(r, events.PlanAbortedEvent, events.PlanAborted{
		FacilityID: r.request.FacilityID,
		State:      entities.Aborted.String(),
		Reason:     err.Error(),
		Exceptions: []entities.PlanException{exc},
	})

	outcome := metrics.OutcomeFailed
	if errors.Is(err, entities.ErrUnknownFacility) || errors.Is(err, entities.ErrInvalidInput) {
		outcome = metrics.OutcomeRejected
	}
	o.metrics.ObserveRun(r.request.Mode.String(), outcome, time.Since(r.started))
	o.metrics.AddException(string(exc.Kind))
}

// publish appends a run event; a publishing failure never changes the run outcome
func (o *Orchestrator) publish(r *run, eventType string, data interface{}) {
	if o.publisher == nil {
		return
	}
	stream := events.FacilityStream(r.request.FacilityID)
	if err := o.publisher.AppendEvent(stream, events.NewEvent(eventType, stream, data, o.clock.Now())); err != nil {
		r.logger.Warn("publishing run event failed", zap.String("event_type", eventType), zap.Error(err))
	}
}

// planningProducts is the catalog plus any product that has demand without a
// catalog entry, so that netting can report it
func planningProducts(snap *snapshot.Snapshot, demand []entities.DemandEvent) []string {
	products := snap.Products()
	for _, event := range demand {
		if _, ok := snap.Product(event.ProductID); !ok {
			products = append(products, event.ProductID)
		}
	}
	return products
}

func groupDemand(demand []entities.DemandEvent) map[string][]entities.DemandEvent {
	grouped := make(map[string][]entities.DemandEvent)
	for _, event := range demand {
		grouped[event.ProductID] = append(grouped[event.ProductID], event)
	}
	return grouped
}

func groupSupply(supply []entities.SupplyEvent) map[string][]entities.SupplyEvent {
	grouped := make(map[string][]entities.SupplyEvent)
	for _, event := range supply {
		grouped[event.ProductID] = append(grouped[event.ProductID], event)
	}
	return grouped
}
