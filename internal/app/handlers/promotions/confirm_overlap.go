package promotions

import (
	"context"
	"log/slog"
	"time"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/dto"
	"staymarket/internal/app/outbox"
	"staymarket/internal/app/uow"
	domaincatalog "staymarket/internal/domain/catalog"
	domainpromotions "staymarket/internal/domain/promotions"
	"staymarket/internal/domain/shared/faults"
)

const confirmOverlapKey = "promotions.confirm_overlap"

type ConfirmOverlapCommand struct {
	CommandID       string
	ProductID       string
	DiscountPercent float64
	StartDate       time.Time
	EndDate         time.Time
	OverlappingIDs  []string
}

func (c ConfirmOverlapCommand) Key() string { return confirmOverlapKey }

type ConfirmOverlapResult struct {
	Created     dto.Promotion `json:"created"`
	Deactivated []string      `json:"deactivated"`
}

// ConfirmOverlapHandler is phase two: deactivate every promotion the caller
// acknowledged and create the replacement, inside one transaction. Either
// both effects commit or neither is visible.
type ConfirmOverlapHandler struct {
	Logger     *slog.Logger
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	UoWFactory uow.UoWFactory
}

func (h *ConfirmOverlapHandler) Handle(ctx context.Context, cmd ConfirmOverlapCommand) (*ConfirmOverlapResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}
	if len(cmd.OverlappingIDs) == 0 {
		return nil, faults.Validationf("promotions: confirmation requires the overlapping promotion ids")
	}

	draft, err := domainpromotions.NewDraft(domaincatalog.ProductID(cmd.ProductID), cmd.DiscountPercent, cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	proposal := domainpromotions.NewProposal(cmd.CommandID, draft, now)

	ids := make([]domainpromotions.PromotionID, len(cmd.OverlappingIDs))
	for i, raw := range cmd.OverlappingIDs {
		ids[i] = domainpromotions.PromotionID(raw)
	}
	if err := proposal.PresentConflict(ids, now); err != nil {
		return nil, err
	}

	deactivated := make([]string, 0, len(ids))
	for _, id := range ids {
		existing, err := unit.Promotions().ByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing.ProductID != draft.ProductID {
			return nil, faults.Conflictf("promotions: promotion %s belongs to another product", id)
		}
		existing.Deactivate(now)
		if err := unit.Promotions().Save(ctx, existing); err != nil {
			return nil, err
		}
		deactivated = append(deactivated, string(existing.ID))
	}

	if err := proposal.Confirm(now); err != nil {
		return nil, err
	}
	created := draft.Build(domainpromotions.PromotionID(newPromotionID()), now)
	if err := unit.Promotions().Save(ctx, created); err != nil {
		return nil, err
	}
	if err := recordProposalEvents(ctx, h.Outbox, h.Encoder, proposal); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("promotion overlap confirmed", "product_id", draft.ProductID, "deactivated", len(deactivated), "created", created.ID)
	}
	return &ConfirmOverlapResult{Created: promotionToDTO(created), Deactivated: deactivated}, nil
}

var _ commands.Handler[ConfirmOverlapCommand, *ConfirmOverlapResult] = (*ConfirmOverlapHandler)(nil)
