package promotions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staymarket/internal/app/uow"
	domaincatalog "staymarket/internal/domain/catalog"
	domainpromotions "staymarket/internal/domain/promotions"
	"staymarket/internal/domain/shared/faults"
	"staymarket/internal/domain/shared/money"
	"staymarket/internal/infra/storage/memory"
)

type fixtures struct {
	factory    memory.Factory
	promotions *memory.PromotionRepository
	outbox     *memory.Outbox
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func setupFixtures(t *testing.T) fixtures {
	t.Helper()
	catalogRepo := memory.NewCatalogRepository()
	f := fixtures{
		promotions: memory.NewPromotionRepository(),
		outbox:     memory.NewOutbox(),
	}
	f.factory = memory.Factory{
		CatalogRepo:      catalogRepo,
		PromotionRepo:    f.promotions,
		SpecialPriceRepo: memory.NewSpecialPriceRepository(),
		CommissionStore:  memory.NewCommissionStore(),
		RentRepo:         memory.NewRentRepository(),
	}

	require.NoError(t, catalogRepo.SaveProduct(context.Background(), &domaincatalog.Product{
		ID:             "prod-1",
		Title:          "Seaside apartment",
		BasePrice:      money.Cents(10000),
		PropertyTypeID: "pt-1",
		OwnerID:        "host-1",
	}))
	return f
}

// unitContext mimics the transaction middleware: handlers in this package
// only run with a unit of work already bound to the context.
func unitContext(t *testing.T, f fixtures) context.Context {
	t.Helper()
	unit, err := f.factory.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	return uow.ContextWithUnitOfWork(context.Background(), unit)
}

func seedActivePromotion(t *testing.T, f fixtures, id domainpromotions.PromotionID, start, end time.Time) {
	t.Helper()
	require.NoError(t, f.promotions.Save(context.Background(), &domainpromotions.Promotion{
		ID:              id,
		ProductID:       "prod-1",
		DiscountPercent: 10,
		Start:           start,
		End:             end,
		Active:          true,
	}))
}

func TestProposeWithoutOverlapCreatesImmediately(t *testing.T) {
	f := setupFixtures(t)
	handler := &ProposePromotionHandler{Outbox: f.outbox, UoWFactory: f.factory}

	result, err := handler.Handle(unitContext(t, f), ProposePromotionCommand{
		CommandID:       "cmd-1",
		ProductID:       "prod-1",
		DiscountPercent: 20,
		StartDate:       date(2026, time.July, 1),
		EndDate:         date(2026, time.July, 31),
	})
	require.NoError(t, err)

	assert.False(t, result.Conflict)
	require.NotNil(t, result.Created)
	assert.Equal(t, "2026-07-01", result.Created.StartDate)
	assert.True(t, result.Created.IsActive)

	rows, err := f.promotions.ByProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	staged := f.outbox.Staged()
	require.Len(t, staged, 1)
	assert.Equal(t, "promotions.promotion_activated", staged[0].Name)
}

func TestProposeWithOverlapReturnsConflictWithoutWrites(t *testing.T) {
	f := setupFixtures(t)
	seedActivePromotion(t, f, "promo-old", date(2026, time.July, 10), date(2026, time.July, 20))
	handler := &ProposePromotionHandler{Outbox: f.outbox, UoWFactory: f.factory}

	result, err := handler.Handle(unitContext(t, f), ProposePromotionCommand{
		CommandID:       "cmd-1",
		ProductID:       "prod-1",
		DiscountPercent: 20,
		StartDate:       date(2026, time.July, 15),
		EndDate:         date(2026, time.July, 25),
	})
	require.NoError(t, err)

	assert.True(t, result.Conflict)
	assert.Nil(t, result.Created)
	require.Len(t, result.Overlapping, 1)
	assert.Equal(t, "promo-old", result.Overlapping[0].ID)

	// Phase one must not touch the store or the outbox.
	rows, err := f.promotions.ByProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Empty(t, f.outbox.Staged())
}

func TestProposeAdjacentWindowDoesNotConflict(t *testing.T) {
	f := setupFixtures(t)
	seedActivePromotion(t, f, "promo-old", date(2026, time.July, 1), date(2026, time.July, 14))
	handler := &ProposePromotionHandler{Outbox: f.outbox, UoWFactory: f.factory}

	result, err := handler.Handle(unitContext(t, f), ProposePromotionCommand{
		CommandID:       "cmd-1",
		ProductID:       "prod-1",
		DiscountPercent: 20,
		StartDate:       date(2026, time.July, 15),
		EndDate:         date(2026, time.July, 31),
	})
	require.NoError(t, err)
	assert.False(t, result.Conflict)
	require.NotNil(t, result.Created)
}

func TestProposeValidation(t *testing.T) {
	f := setupFixtures(t)
	handler := &ProposePromotionHandler{Outbox: f.outbox, UoWFactory: f.factory}
	ctx := unitContext(t, f)

	_, err := handler.Handle(ctx, ProposePromotionCommand{
		CommandID: "cmd-1", ProductID: "prod-1", DiscountPercent: 150,
		StartDate: date(2026, time.July, 1), EndDate: date(2026, time.July, 31),
	})
	assert.ErrorIs(t, err, domainpromotions.ErrInvalidDiscount)

	_, err = handler.Handle(ctx, ProposePromotionCommand{
		CommandID: "cmd-2", ProductID: "prod-missing", DiscountPercent: 20,
		StartDate: date(2026, time.July, 1), EndDate: date(2026, time.July, 31),
	})
	assert.ErrorIs(t, err, faults.ErrNotFound)
}

func TestProposeRequiresUnitOfWork(t *testing.T) {
	f := setupFixtures(t)
	handler := &ProposePromotionHandler{Outbox: f.outbox, UoWFactory: f.factory}

	_, err := handler.Handle(context.Background(), ProposePromotionCommand{
		CommandID: "cmd-1", ProductID: "prod-1", DiscountPercent: 20,
		StartDate: date(2026, time.July, 1), EndDate: date(2026, time.July, 31),
	})
	assert.ErrorIs(t, err, uow.ErrUnitOfWorkMissing)
}

func TestConfirmOverlapDeactivatesAndCreates(t *testing.T) {
	f := setupFixtures(t)
	seedActivePromotion(t, f, "promo-old", date(2026, time.July, 10), date(2026, time.July, 20))
	handler := &ConfirmOverlapHandler{Outbox: f.outbox, UoWFactory: f.factory}

	result, err := handler.Handle(unitContext(t, f), ConfirmOverlapCommand{
		CommandID:       "cmd-1",
		ProductID:       "prod-1",
		DiscountPercent: 25,
		StartDate:       date(2026, time.July, 15),
		EndDate:         date(2026, time.July, 25),
		OverlappingIDs:  []string{"promo-old"},
	})
	require.NoError(t, err)

	require.NotEmpty(t, result.Created.ID)
	assert.Equal(t, []string{"promo-old"}, result.Deactivated)

	old, err := f.promotions.ByID(context.Background(), "promo-old")
	require.NoError(t, err)
	assert.False(t, old.Active)

	created, err := f.promotions.ByID(context.Background(), domainpromotions.PromotionID(result.Created.ID))
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.InEpsilon(t, 25.0, created.DiscountPercent, 1e-9)

	staged := f.outbox.Staged()
	require.Len(t, staged, 1)
	assert.Equal(t, "promotions.promotion_activated", staged[0].Name)
}

func TestConfirmOverlapRejectsForeignPromotion(t *testing.T) {
	f := setupFixtures(t)
	require.NoError(t, f.promotions.Save(context.Background(), &domainpromotions.Promotion{
		ID: "promo-foreign", ProductID: "prod-2", DiscountPercent: 10,
		Start: date(2026, time.July, 10), End: date(2026, time.July, 20), Active: true,
	}))
	handler := &ConfirmOverlapHandler{Outbox: f.outbox, UoWFactory: f.factory}

	_, err := handler.Handle(unitContext(t, f), ConfirmOverlapCommand{
		CommandID:       "cmd-1",
		ProductID:       "prod-1",
		DiscountPercent: 25,
		StartDate:       date(2026, time.July, 15),
		EndDate:         date(2026, time.July, 25),
		OverlappingIDs:  []string{"promo-foreign"},
	})
	assert.ErrorIs(t, err, faults.ErrConflict)

	foreign, err := f.promotions.ByID(context.Background(), "promo-foreign")
	require.NoError(t, err)
	assert.True(t, foreign.Active)
}

func TestConfirmOverlapRequiresIDs(t *testing.T) {
	f := setupFixtures(t)
	handler := &ConfirmOverlapHandler{Outbox: f.outbox, UoWFactory: f.factory}

	_, err := handler.Handle(unitContext(t, f), ConfirmOverlapCommand{
		CommandID:       "cmd-1",
		ProductID:       "prod-1",
		DiscountPercent: 25,
		StartDate:       date(2026, time.July, 15),
		EndDate:         date(2026, time.July, 25),
	})
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestListPromotionsFiltersInactive(t *testing.T) {
	f := setupFixtures(t)
	seedActivePromotion(t, f, "promo-active", date(2026, time.July, 1), date(2026, time.July, 14))
	require.NoError(t, f.promotions.Save(context.Background(), &domainpromotions.Promotion{
		ID: "promo-off", ProductID: "prod-1", DiscountPercent: 10,
		Start: date(2026, time.June, 1), End: date(2026, time.June, 14), Active: false,
	}))
	handler := &ListPromotionsHandler{UoWFactory: f.factory}
	ctx := context.Background()

	active, err := handler.Handle(ctx, ListPromotionsQuery{ProductID: "prod-1"})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "promo-active", active[0].ID)

	all, err := handler.Handle(ctx, ListPromotionsQuery{ProductID: "prod-1", IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
