package commissions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staymarket/internal/domain/shared/faults"
)

func seedCommissions(t *testing.T, f fixtures) (hotelID string) {
	t.Helper()
	handler := newHandler(f)
	ctx := unitContext(t, f)

	hotel, err := handler.HandleCreate(ctx, CreateCommissionCommand{TypeID: "pt-2", Rates: validRates()})
	require.NoError(t, err)
	return hotel.ID
}

func TestGetByType(t *testing.T) {
	f := setupFixtures(t)
	seedCommissions(t, f)
	queries := &QueryHandler{UoWFactory: f.factory}
	ctx := context.Background()

	row, err := queries.HandleGetByType(ctx, GetByTypeQuery{TypeID: "pt-2"})
	require.NoError(t, err)
	assert.Equal(t, "pt-2", row.TypeID)

	_, err = queries.HandleGetByType(ctx, GetByTypeQuery{TypeID: "pt-1"})
	assert.ErrorIs(t, err, faults.ErrNotFound)

	_, err = queries.HandleGetByType(ctx, GetByTypeQuery{TypeID: ""})
	assert.ErrorIs(t, err, faults.ErrValidation)
}

func TestListCommissions(t *testing.T) {
	f := setupFixtures(t)
	queries := &QueryHandler{UoWFactory: f.factory}

	rows, err := queries.HandleList(context.Background(), ListCommissionsQuery{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	seedCommissions(t, f)
	rows, err = queries.HandleList(context.Background(), ListCommissionsQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "pt-2", rows[0].TypeID)
}

func TestMissingTypes(t *testing.T) {
	f := setupFixtures(t)
	seedCommissions(t, f)
	queries := &QueryHandler{UoWFactory: f.factory}

	missing, err := queries.HandleMissingTypes(context.Background(), MissingTypesQuery{})
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "pt-1", missing[0].ID)
	assert.Equal(t, "Apartment", missing[0].Name)
}

func TestCurrentSettings(t *testing.T) {
	f := setupFixtures(t)
	queries := &QueryHandler{UoWFactory: f.factory}

	_, err := queries.HandleCurrentSettings(context.Background(), CurrentSettingsQuery{})
	assert.ErrorIs(t, err, faults.ErrNotFound)

	handler := newHandler(f)
	saved, err := handler.HandleUpsertSettings(unitContext(t, f), UpsertSettingsCommand{Rates: validRates(), Active: true})
	require.NoError(t, err)

	current, err := queries.HandleCurrentSettings(context.Background(), CurrentSettingsQuery{})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, current.ID)
	assert.InEpsilon(t, 0.05, current.ClientCommissionRate, 1e-9)
}
