package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincommissions "staymarket/internal/domain/commissions"
	domainpromotions "staymarket/internal/domain/promotions"
	"staymarket/internal/domain/shared/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCommissionStoreOneRowPerType(t *testing.T) {
	store := NewCommissionStore()
	ctx := context.Background()

	first := &domaincommissions.Commission{ID: "c-1", TypeID: "pt-1", Active: true}
	require.NoError(t, store.Create(ctx, first))

	duplicate := &domaincommissions.Commission{ID: "c-2", TypeID: "pt-1", Active: true}
	assert.ErrorIs(t, store.Create(ctx, duplicate), domaincommissions.ErrTypeTaken)

	// Moving another row onto the occupied type fails the same way.
	other := &domaincommissions.Commission{ID: "c-3", TypeID: "pt-2", Active: true}
	require.NoError(t, store.Create(ctx, other))
	other.TypeID = "pt-1"
	assert.ErrorIs(t, store.Update(ctx, other), domaincommissions.ErrTypeTaken)

	// Updating a row in place keeps its own type claim.
	first.Rates = domaincommissions.Rates{HostRate: 0.15}
	require.NoError(t, store.Update(ctx, first))
}

func TestCommissionStoreDeleteFreesType(t *testing.T) {
	store := NewCommissionStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &domaincommissions.Commission{ID: "c-1", TypeID: "pt-1"}))
	require.NoError(t, store.Delete(ctx, "c-1"))
	assert.ErrorIs(t, store.Delete(ctx, "c-1"), domaincommissions.ErrCommissionNotFound)

	require.NoError(t, store.Create(ctx, &domaincommissions.Commission{ID: "c-2", TypeID: "pt-1"}))
}

func TestCommissionStoreClonesOnRead(t *testing.T) {
	store := NewCommissionStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &domaincommissions.Commission{ID: "c-1", TypeID: "pt-1", Rates: domaincommissions.Rates{HostRate: 0.10}}))

	read, err := store.ByType(ctx, "pt-1")
	require.NoError(t, err)
	read.Rates.HostRate = 0.99

	again, err := store.ByType(ctx, "pt-1")
	require.NoError(t, err)
	assert.InEpsilon(t, 0.10, again.Rates.HostRate, 1e-9)
}

func TestLatestActiveSettingsPicksMostRecentActive(t *testing.T) {
	store := NewCommissionStore()
	ctx := context.Background()

	_, err := store.LatestActiveSettings(ctx)
	assert.ErrorIs(t, err, domaincommissions.ErrSettingsNotFound)

	require.NoError(t, store.SaveSettings(ctx, &domaincommissions.Settings{
		ID: "s-old", Rates: domaincommissions.Rates{ClientRate: 0.05}, Active: true, CreatedAt: date(2026, time.January, 1),
	}))
	require.NoError(t, store.SaveSettings(ctx, &domaincommissions.Settings{
		ID: "s-new", Rates: domaincommissions.Rates{ClientRate: 0.07}, Active: true, CreatedAt: date(2026, time.June, 1),
	}))
	require.NoError(t, store.SaveSettings(ctx, &domaincommissions.Settings{
		ID: "s-inactive", Rates: domaincommissions.Rates{ClientRate: 0.09, ClientFixed: money.Cents(100)}, Active: false, CreatedAt: date(2026, time.July, 1),
	}))

	latest, err := store.LatestActiveSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s-new", latest.ID)
}

func TestPromotionRepositoryActiveOverlapping(t *testing.T) {
	repo := NewPromotionRepository()
	ctx := context.Background()

	inside := &domainpromotions.Promotion{
		ID: "promo-inside", ProductID: "prod-1", Active: true,
		Start: date(2026, time.July, 10), End: date(2026, time.July, 20),
	}
	adjacent := &domainpromotions.Promotion{
		ID: "promo-adjacent", ProductID: "prod-1", Active: true,
		Start: date(2026, time.July, 21), End: date(2026, time.July, 31),
	}
	inactive := &domainpromotions.Promotion{
		ID: "promo-inactive", ProductID: "prod-1", Active: false,
		Start: date(2026, time.July, 10), End: date(2026, time.July, 20),
	}
	otherProduct := &domainpromotions.Promotion{
		ID: "promo-other", ProductID: "prod-2", Active: true,
		Start: date(2026, time.July, 10), End: date(2026, time.July, 20),
	}
	for _, p := range []*domainpromotions.Promotion{inside, adjacent, inactive, otherProduct} {
		require.NoError(t, repo.Save(ctx, p))
	}

	overlapping, err := repo.ActiveOverlapping(ctx, "prod-1", date(2026, time.July, 15), date(2026, time.July, 18))
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, domainpromotions.PromotionID("promo-inside"), overlapping[0].ID)

	all, err := repo.ByProduct(ctx, "prod-1")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPromotionRepositoryClonesOnWrite(t *testing.T) {
	repo := NewPromotionRepository()
	ctx := context.Background()

	promo := &domainpromotions.Promotion{
		ID: "promo-1", ProductID: "prod-1", Active: true,
		Start: date(2026, time.July, 10), End: date(2026, time.July, 20),
	}
	require.NoError(t, repo.Save(ctx, promo))

	// Mutating the caller's copy after save must not leak into the store.
	promo.Active = false

	stored, err := repo.ByID(ctx, "promo-1")
	require.NoError(t, err)
	assert.True(t, stored.Active)
}
