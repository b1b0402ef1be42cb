package commissions

import (
	"context"
	"strings"

	"staymarket/internal/app/dto"
	handlersupport "staymarket/internal/app/handlers/support"
	"staymarket/internal/app/queries"
	"staymarket/internal/app/uow"
	domaincatalog "staymarket/internal/domain/catalog"
	"staymarket/internal/domain/shared/faults"
)

const (
	getByTypeKey       = "commissions.get_by_type"
	listCommissionsKey = "commissions.list"
	missingTypesKey    = "commissions.missing_types"
	currentSettingsKey = "commissions.current_settings"
)

type GetByTypeQuery struct {
	TypeID string
}

func (q GetByTypeQuery) Key() string { return getByTypeKey }

type ListCommissionsQuery struct{}

func (q ListCommissionsQuery) Key() string { return listCommissionsKey }

// MissingTypesQuery lists property types that have no commission row, active
// or not. These types bill through the global fallback.
type MissingTypesQuery struct{}

func (q MissingTypesQuery) Key() string { return missingTypesKey }

type CurrentSettingsQuery struct{}

func (q CurrentSettingsQuery) Key() string { return currentSettingsKey }

type QueryHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *QueryHandler) HandleGetByType(ctx context.Context, q GetByTypeQuery) (*dto.Commission, error) {
	if strings.TrimSpace(q.TypeID) == "" {
		return nil, faults.Validationf("commissions: property type id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	commission, err := unit.Commissions().ByType(execCtx, domaincatalog.PropertyTypeID(q.TypeID))
	if err != nil {
		return nil, err
	}
	out := commissionToDTO(commission)
	return &out, nil
}

func (h *QueryHandler) HandleList(ctx context.Context, q ListCommissionsQuery) ([]dto.Commission, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	rows, err := unit.Commissions().All(execCtx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Commission, 0, len(rows))
	for _, row := range rows {
		out = append(out, commissionToDTO(row))
	}
	return out, nil
}

func (h *QueryHandler) HandleMissingTypes(ctx context.Context, q MissingTypesQuery) ([]dto.PropertyType, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	types, err := unit.Catalog().PropertyTypes(execCtx)
	if err != nil {
		return nil, err
	}
	rows, err := unit.Commissions().All(execCtx)
	if err != nil {
		return nil, err
	}
	configured := make(map[domaincatalog.PropertyTypeID]struct{}, len(rows))
	for _, row := range rows {
		configured[row.TypeID] = struct{}{}
	}
	out := make([]dto.PropertyType, 0)
	for _, pt := range types {
		if _, ok := configured[pt.ID]; ok {
			continue
		}
		out = append(out, dto.PropertyType{ID: string(pt.ID), Name: pt.Name, IsHotelType: pt.IsHotelType})
	}
	return out, nil
}

func (h *QueryHandler) HandleCurrentSettings(ctx context.Context, q CurrentSettingsQuery) (*dto.CommissionSettings, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	settings, err := unit.Commissions().LatestActiveSettings(execCtx)
	if err != nil {
		return nil, err
	}
	return settingsToDTO(settings), nil
}

var _ queries.HandlerFunc[GetByTypeQuery, *dto.Commission] = (*QueryHandler)(nil).HandleGetByType
