package gormstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/domain/repositories"
)

func newTestRepository(t *testing.T) *PlanRepository {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return NewPlanRepository(db)
}

func samplePlan(id, facility string, generated time.Time) *entities.MrpPlan {
	start := entities.Day(generated)
	return &entities.MrpPlan{
		PlanID:      id,
		FacilityID:  facility,
		Mode:        entities.NetChange,
		Horizon:     entities.Horizon{Start: start, End: start.AddDate(0, 0, 60)},
		BucketDays:  1,
		GeneratedAt: generated,
		PlannedOrders: []entities.PlannedOrder{
			{
				Line:               1,
				ProductID:          "P",
				FacilityID:         facility,
				Quantity:           decimal.RequireFromString("10.5"),
				SuggestedStartDate: start.AddDate(0, 0, 15),
				SuggestedDueDate:   start.AddDate(0, 0, 20),
				OrderType:          entities.Production,
			},
			{
				Line:               2,
				ProductID:          "C",
				FacilityID:         facility,
				Quantity:           decimal.NewFromInt(21),
				SuggestedStartDate: start,
				SuggestedDueDate:   start.AddDate(0, 0, 15),
				OrderType:          entities.Purchase,
				Level:              1,
				Clamped:            true,
			},
		},
		Exceptions: []entities.PlanException{
			{Kind: entities.ExceptionLeadTime, ProductID: "C", Message: "clamped"},
			{Kind: entities.ExceptionMissingPolicy, ProductID: "X", Message: "missing lead time", Path: []string{"X"}},
		},
		PreviousPlanID: "before",
		Changes: []entities.PlanChange{
			{
				Kind:        entities.ChangeUpdated,
				ProductID:   "P",
				DueDate:     start.AddDate(0, 0, 20),
				OldQuantity: decimal.NewFromInt(8),
				NewQuantity: decimal.RequireFromString("10.5"),
			},
		},
	}
}

func TestPlanRepository_RoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	generated := time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)
	plan := samplePlan("plan-1", "F1", generated)

	require.NoError(t, repo.Save(ctx, plan))

	stored, err := repo.Get(ctx, "plan-1")
	require.NoError(t, err)

	assert.Equal(t, "F1", stored.FacilityID)
	assert.Equal(t, entities.NetChange, stored.Mode)
	assert.Equal(t, "before", stored.PreviousPlanID)
	assert.True(t, stored.GeneratedAt.Equal(generated))
	assert.True(t, stored.Horizon.End.Equal(plan.Horizon.End))

	require.Len(t, stored.PlannedOrders, 2)
	assert.Equal(t, "P", stored.PlannedOrders[0].ProductID)
	assert.True(t, stored.PlannedOrders[0].Quantity.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, entities.Purchase, stored.PlannedOrders[1].OrderType)
	assert.Equal(t, 1, stored.PlannedOrders[1].Level)
	assert.True(t, stored.PlannedOrders[1].Clamped)
	assert.True(t, stored.PlannedOrders[1].SuggestedDueDate.Equal(plan.PlannedOrders[1].SuggestedDueDate))

	require.Len(t, stored.Exceptions, 2)
	assert.Equal(t, entities.ExceptionLeadTime, stored.Exceptions[0].Kind)
	assert.Equal(t, []string{"X"}, stored.Exceptions[1].Path)

	require.Len(t, stored.Changes, 1)
	assert.True(t, stored.Changes[0].OldQuantity.Equal(decimal.NewFromInt(8)))
}

func TestPlanRepository_History(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	generated := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	// same timestamp on purpose: history order follows save order
	require.NoError(t, repo.Save(ctx, samplePlan("plan-1", "F1", generated)))
	require.NoError(t, repo.Save(ctx, samplePlan("plan-2", "F1", generated)))
	require.NoError(t, repo.Save(ctx, samplePlan("plan-3", "F2", generated)))

	latest, err := repo.Latest(ctx, "F1")
	require.NoError(t, err)
	assert.Equal(t, "plan-2", latest.PlanID)

	history, err := repo.List(ctx, "F1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "plan-1", history[0].PlanID)
	assert.Equal(t, "plan-2", history[1].PlanID)

	err = repo.Save(ctx, samplePlan("plan-1", "F1", generated))
	assert.Error(t, err, "plan ids are never overwritten")
}

func TestPlanRepository_NotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, repositories.ErrPlanNotFound))

	_, err = repo.Latest(ctx, "F1")
	assert.True(t, errors.Is(err, repositories.ErrPlanNotFound))

	plans, err := repo.List(ctx, "F1")
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestPlanRepository_EmptyPlan(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	plan := &entities.MrpPlan{PlanID: "empty", FacilityID: "F1", GeneratedAt: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.Save(ctx, plan))

	stored, err := repo.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, stored.PlannedOrders)
	assert.Empty(t, stored.Exceptions)
	assert.Empty(t, stored.Changes)

	assert.Error(t, repo.Save(ctx, &entities.MrpPlan{FacilityID: "F1"}))
}

func TestDialect(t *testing.T) {
	_, err := Dialect(DriverSQLite, "file::memory:")
	assert.NoError(t, err)

	_, err = Dialect(DriverPostgres, "host=localhost user=mrp dbname=mrp sslmode=disable")
	assert.NoError(t, err)

	_, err = Dialect("mysql", "dsn")
	assert.Error(t, err)

	_, err = Dialect(DriverSQLite, "")
	assert.Error(t, err)
}

func TestOpen_MigratesSQLite(t *testing.T) {
	db, err := Open(DriverSQLite, "file:open_migrates?mode=memory&cache=shared", nil)
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable("mrp_plans"))
	assert.True(t, db.Migrator().HasTable("mrp_planned_orders"))
	assert.True(t, db.Migrator().HasTable("mrp_plan_exceptions"))
	assert.True(t, db.Migrator().HasTable("mrp_plan_changes"))
}
