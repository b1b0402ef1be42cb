package commissions

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/dto"
	"staymarket/internal/app/outbox"
	"staymarket/internal/app/uow"
	domaincatalog "staymarket/internal/domain/catalog"
	domaincommissions "staymarket/internal/domain/commissions"
	"staymarket/internal/domain/shared/events"
	"staymarket/internal/domain/shared/faults"
	"staymarket/internal/domain/shared/money"
)

const (
	createCommissionKey = "commissions.create"
	updateCommissionKey = "commissions.update"
	deleteCommissionKey = "commissions.delete"
	toggleCommissionKey = "commissions.toggle"
	upsertSettingsKey   = "commissions.upsert_settings"
)

// RatesCache is the cache-facing slice of the resolver: every mutation here
// must drop the keys it makes stale before returning.
type RatesCache interface {
	Invalidate(ctx context.Context, typeIDs ...domaincatalog.PropertyTypeID) error
	InvalidateGlobal(ctx context.Context) error
}

type RatesInput struct {
	HostRate         float64
	HostFixedCents   int64
	ClientRate       float64
	ClientFixedCents int64
}

func (in RatesInput) toDomain() (domaincommissions.Rates, error) {
	if in.HostRate < 0 || in.HostRate > 1 || in.ClientRate < 0 || in.ClientRate > 1 {
		return domaincommissions.Rates{}, faults.Validationf("commissions: rates must be fractions between 0 and 1")
	}
	if in.HostFixedCents < 0 || in.ClientFixedCents < 0 {
		return domaincommissions.Rates{}, faults.Validationf("commissions: fixed fees must not be negative")
	}
	return domaincommissions.Rates{
		HostRate:    in.HostRate,
		HostFixed:   money.Cents(in.HostFixedCents),
		ClientRate:  in.ClientRate,
		ClientFixed: money.Cents(in.ClientFixedCents),
	}, nil
}

type CreateCommissionCommand struct {
	TypeID string
	Rates  RatesInput
}

func (c CreateCommissionCommand) Key() string { return createCommissionKey }

type UpdateCommissionCommand struct {
	CommissionID string
	TypeID       string
	Rates        RatesInput
	Active       bool
}

func (c UpdateCommissionCommand) Key() string { return updateCommissionKey }

type DeleteCommissionCommand struct {
	CommissionID string
}

func (c DeleteCommissionCommand) Key() string { return deleteCommissionKey }

type ToggleCommissionCommand struct {
	CommissionID string
}

func (c ToggleCommissionCommand) Key() string { return toggleCommissionKey }

type UpsertSettingsCommand struct {
	Rates  RatesInput
	Active bool
}

func (c UpsertSettingsCommand) Key() string { return upsertSettingsKey }

// ConfigureHandler owns every commission mutation so the store invariant
// (one row per property type) and cache invalidation live in one place.
type ConfigureHandler struct {
	Logger     *slog.Logger
	Cache      RatesCache
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	UoWFactory uow.UoWFactory
}

func (h *ConfigureHandler) HandleCreate(ctx context.Context, cmd CreateCommissionCommand) (*dto.Commission, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	typeID := domaincatalog.PropertyTypeID(strings.TrimSpace(cmd.TypeID))
	if typeID == "" {
		return nil, faults.Validationf("commissions: property type id is required")
	}
	rates, err := cmd.Rates.toDomain()
	if err != nil {
		return nil, err
	}
	if err := h.ensurePropertyType(ctx, unit, typeID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	commission := &domaincommissions.Commission{
		ID:        domaincommissions.CommissionID(uuid.NewString()),
		TypeID:    typeID,
		Rates:     rates,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := unit.Commissions().Create(ctx, commission); err != nil {
		return nil, err
	}
	if err := h.afterMutation(ctx, commission.ID, "created", now, typeID); err != nil {
		return nil, err
	}
	out := commissionToDTO(commission)
	return &out, nil
}

func (h *ConfigureHandler) HandleUpdate(ctx context.Context, cmd UpdateCommissionCommand) (*dto.Commission, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	rates, err := cmd.Rates.toDomain()
	if err != nil {
		return nil, err
	}
	commission, err := unit.Commissions().ByID(ctx, domaincommissions.CommissionID(cmd.CommissionID))
	if err != nil {
		return nil, err
	}

	previousType := commission.TypeID
	newType := previousType
	if trimmed := strings.TrimSpace(cmd.TypeID); trimmed != "" {
		newType = domaincatalog.PropertyTypeID(trimmed)
	}
	if newType != previousType {
		if err := h.ensurePropertyType(ctx, unit, newType); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	commission.TypeID = newType
	commission.Rates = rates
	commission.Active = cmd.Active
	commission.UpdatedAt = now
	if err := unit.Commissions().Update(ctx, commission); err != nil {
		return nil, err
	}

	// Reassigning the row changes rates for both the old and new type.
	touched := []domaincatalog.PropertyTypeID{previousType}
	if newType != previousType {
		touched = append(touched, newType)
	}
	if err := h.afterMutation(ctx, commission.ID, "updated", now, touched...); err != nil {
		return nil, err
	}
	out := commissionToDTO(commission)
	return &out, nil
}

func (h *ConfigureHandler) HandleDelete(ctx context.Context, cmd DeleteCommissionCommand) (struct{}, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return struct{}{}, uow.ErrUnitOfWorkMissing
	}
	commission, err := unit.Commissions().ByID(ctx, domaincommissions.CommissionID(cmd.CommissionID))
	if err != nil {
		return struct{}{}, err
	}
	if err := unit.Commissions().Delete(ctx, commission.ID); err != nil {
		return struct{}{}, err
	}
	if err := h.afterMutation(ctx, commission.ID, "deleted", time.Now().UTC(), commission.TypeID); err != nil {
		return struct{}{}, err
	}
	return struct{}{}, nil
}

func (h *ConfigureHandler) HandleToggle(ctx context.Context, cmd ToggleCommissionCommand) (*dto.Commission, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	commission, err := unit.Commissions().ByID(ctx, domaincommissions.CommissionID(cmd.CommissionID))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	commission.Toggle(now)
	if err := unit.Commissions().Update(ctx, commission); err != nil {
		return nil, err
	}
	if err := h.afterMutation(ctx, commission.ID, "toggled", now, commission.TypeID); err != nil {
		return nil, err
	}
	out := commissionToDTO(commission)
	return &out, nil
}

func (h *ConfigureHandler) HandleUpsertSettings(ctx context.Context, cmd UpsertSettingsCommand) (*dto.CommissionSettings, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	rates, err := cmd.Rates.toDomain()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	settings := &domaincommissions.Settings{
		ID:        uuid.NewString(),
		Rates:     rates,
		Active:    cmd.Active,
		CreatedAt: now,
	}
	if err := unit.Commissions().SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	if h.Cache != nil {
		if err := h.Cache.InvalidateGlobal(ctx); err != nil && h.Logger != nil {
			h.Logger.Warn("settings cache invalidation failed", "error", err)
		}
	}
	if h.Logger != nil {
		h.Logger.Info("commission settings replaced", "settings_id", settings.ID, "active", settings.Active)
	}
	return settingsToDTO(settings), nil
}

func (h *ConfigureHandler) ensurePropertyType(ctx context.Context, unit uow.UnitOfWork, typeID domaincatalog.PropertyTypeID) error {
	types, err := unit.Catalog().PropertyTypes(ctx)
	if err != nil {
		return err
	}
	for _, pt := range types {
		if pt.ID == typeID {
			return nil
		}
	}
	return domaincatalog.ErrPropertyTypeNotFound
}

func (h *ConfigureHandler) afterMutation(ctx context.Context, id domaincommissions.CommissionID, action string, at time.Time, typeIDs ...domaincatalog.PropertyTypeID) error {
	if h.Cache != nil {
		if err := h.Cache.Invalidate(ctx, typeIDs...); err != nil && h.Logger != nil {
			h.Logger.Warn("commission cache invalidation failed", "commission_id", id, "error", err)
		}
	}
	event := domaincommissions.CommissionChanged{CommissionID: id, TypeIDs: typeIDs, Action: action, At: at}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), []events.DomainEvent{event}); err != nil {
		return err
	}
	if h.Logger != nil {
		h.Logger.Info("commission "+action, "commission_id", id, "type_ids", typeIDs)
	}
	return nil
}

func (h *ConfigureHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func commissionToDTO(c *domaincommissions.Commission) dto.Commission {
	return dto.Commission{
		ID:                    string(c.ID),
		TypeID:                string(c.TypeID),
		HostCommissionRate:    c.Rates.HostRate,
		HostCommissionFixed:   c.Rates.HostFixed.Amount,
		ClientCommissionRate:  c.Rates.ClientRate,
		ClientCommissionFixed: c.Rates.ClientFixed.Amount,
		IsActive:              c.Active,
		UpdatedAt:             c.UpdatedAt,
	}
}

func settingsToDTO(s *domaincommissions.Settings) *dto.CommissionSettings {
	return &dto.CommissionSettings{
		ID:                    s.ID,
		HostCommissionRate:    s.Rates.HostRate,
		HostCommissionFixed:   s.Rates.HostFixed.Amount,
		ClientCommissionRate:  s.Rates.ClientRate,
		ClientCommissionFixed: s.Rates.ClientFixed.Amount,
		IsActive:              s.Active,
		CreatedAt:             s.CreatedAt,
	}
}

// The configure handler registers each mutation as a HandlerFunc on the bus.
var _ commands.HandlerFunc[CreateCommissionCommand, *dto.Commission] = (*ConfigureHandler)(nil).HandleCreate
