package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/dto"
	"staymarket/internal/app/outbox"
	"staymarket/internal/app/policies"
	"staymarket/internal/app/uow"
	domainrents "staymarket/internal/domain/rents"
	"staymarket/internal/domain/shared/faults"
)

const confirmBookingKey = "pricing.confirm_booking"

type ConfirmBookingCommand struct {
	CommandID string
	ProductID string
	GuestID   string
	CheckIn   time.Time
	CheckOut  time.Time
	Extras    []ExtraSelection
}

func (c ConfirmBookingCommand) Key() string { return confirmBookingKey }

type ConfirmBookingResult struct {
	RentID          string           `json:"rent_id"`
	Snapshot        dto.RentSnapshot `json:"snapshot"`
	ArchiveLocation string           `json:"archive_location,omitempty"`
}

// ConfirmBookingHandler re-runs the quote computation and freezes its
// summary onto a new rent. The snapshot is written once; later commission
// or promotion changes never touch it.
type ConfirmBookingHandler struct {
	Logger     *slog.Logger
	Commission policies.CommissionPort
	Archiver   policies.SnapshotArchiver
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	UoWFactory uow.UoWFactory
}

func (h *ConfirmBookingHandler) Handle(ctx context.Context, cmd ConfirmBookingCommand) (*ConfirmBookingResult, error) {
	if strings.TrimSpace(cmd.GuestID) == "" {
		return nil, faults.Validationf("pricing: guest id is required")
	}
	unit, execCtx, managed, finish, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(execCtx)
			}
		}()
	}

	now := time.Now().UTC()
	quote, err := computeQuote(execCtx, unit, h.Commission, h.Logger, quoteParams{
		ProductID: cmd.ProductID,
		CheckIn:   cmd.CheckIn,
		CheckOut:  cmd.CheckOut,
		Extras:    cmd.Extras,
		Now:       now,
	})
	if err != nil {
		return nil, err
	}

	product, err := unit.Catalog().ProductByID(execCtx, quote.ProductID)
	if err != nil {
		return nil, err
	}

	rent, err := domainrents.NewRent(domainrents.CreateParams{
		ID:        domainrents.RentID(cmd.CommandID),
		ProductID: quote.ProductID,
		GuestID:   cmd.GuestID,
		Range:     quote.Range,
		Snapshot:  domainrents.SnapshotFromSummary(product.BasePrice, quote.Summary),
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Rents().Save(execCtx, rent); err != nil {
		return nil, err
	}

	pending := rent.PendingEvents()
	rent.ClearEvents()
	if err := outbox.RecordDomainEvents(execCtx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if managed {
		if err := finish(execCtx); err != nil {
			return nil, err
		}
		committed = true
	}

	location := ""
	if h.Archiver != nil {
		location, err = h.Archiver.Archive(ctx, rent.ID, rent.Snapshot)
		if err != nil {
			// Archive is audit tooling; the booking stands regardless.
			location = ""
			if h.Logger != nil {
				h.Logger.Warn("snapshot archive failed", "rent_id", rent.ID, "error", err)
			}
		}
	}

	if h.Logger != nil {
		h.Logger.Info("booking confirmed", "rent_id", rent.ID, "product_id", rent.ProductID, "total_cents", rent.Snapshot.TotalAmount.Amount)
	}

	return &ConfirmBookingResult{
		RentID:          string(rent.ID),
		Snapshot:        snapshotToDTO(rent.Snapshot),
		ArchiveLocation: location,
	}, nil
}

func (h *ConfirmBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

// beginUnit reuses a transaction-middleware unit from context, or starts and
// owns one when the handler is called directly.
func beginUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, bool, func(context.Context) error, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, false, nil, nil
	}
	if factory == nil {
		return nil, ctx, false, nil, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, ctx, false, nil, fmt.Errorf("begin unit of work: %w", err)
	}
	execCtx := ctx
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		execCtx = injector.InjectContext(ctx)
	}
	execCtx = uow.ContextWithUnitOfWork(execCtx, unit)
	return unit, execCtx, true, unit.Commit, nil
}

func snapshotToDTO(s domainrents.PricingSnapshot) dto.RentSnapshot {
	return dto.RentSnapshot{
		SubtotalCents:          s.Subtotal.Amount,
		ExtrasTotalCents:       s.ExtrasTotal.Amount,
		ClientCommissionCents:  s.ClientCommission.Amount,
		HostCommissionCents:    s.HostCommission.Amount,
		PlatformAmountCents:    s.PlatformAmount.Amount,
		HostAmountCents:        s.HostAmount.Amount,
		TotalAmountCents:       s.TotalAmount.Amount,
		Nights:                 s.Nights,
		BasePricePerNightCents: s.BasePricePerNight.Amount,
		Currency:               s.TotalAmount.Currency,
		CalculatedAt:           s.CalculatedAt,
	}
}

var _ commands.Handler[ConfirmBookingCommand, *ConfirmBookingResult] = (*ConfirmBookingHandler)(nil)
