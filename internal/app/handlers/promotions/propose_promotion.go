package promotions

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/dto"
	"staymarket/internal/app/outbox"
	"staymarket/internal/app/uow"
	domaincatalog "staymarket/internal/domain/catalog"
	domainpromotions "staymarket/internal/domain/promotions"
)

const proposePromotionKey = "promotions.propose"

type ProposePromotionCommand struct {
	CommandID       string
	ProductID       string
	DiscountPercent float64
	StartDate       time.Time
	EndDate         time.Time
}

func (c ProposePromotionCommand) Key() string { return proposePromotionKey }

type ProposePromotionResult struct {
	Created     *dto.Promotion  `json:"created,omitempty"`
	Conflict    bool            `json:"conflict"`
	Overlapping []dto.Promotion `json:"overlapping,omitempty"`
}

// ProposePromotionHandler is phase one of the two-phase creation: when the
// proposed window overlaps active promotions nothing is written and the
// conflicting set is returned for an explicit confirmation.
type ProposePromotionHandler struct {
	Logger     *slog.Logger
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	UoWFactory uow.UoWFactory
}

func (h *ProposePromotionHandler) Handle(ctx context.Context, cmd ProposePromotionCommand) (*ProposePromotionResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return nil, uow.ErrUnitOfWorkMissing
	}

	draft, err := domainpromotions.NewDraft(domaincatalog.ProductID(cmd.ProductID), cmd.DiscountPercent, cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}
	if _, err := unit.Catalog().ProductByID(ctx, draft.ProductID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	proposal := domainpromotions.NewProposal(cmd.CommandID, draft, now)

	overlapping, err := unit.Promotions().ActiveOverlapping(ctx, draft.ProductID, draft.Start, draft.End)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		ids := make([]domainpromotions.PromotionID, len(overlapping))
		for i, p := range overlapping {
			ids[i] = p.ID
		}
		if err := proposal.PresentConflict(ids, now); err != nil {
			return nil, err
		}
		result := &ProposePromotionResult{Conflict: true}
		for _, p := range overlapping {
			result.Overlapping = append(result.Overlapping, promotionToDTO(p))
		}
		if h.Logger != nil {
			h.Logger.Info("promotion proposal conflicts", "product_id", draft.ProductID, "overlapping", len(overlapping))
		}
		return result, nil
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

	createdDTO := promotionToDTO(created)
	return &ProposePromotionResult{Created: &createdDTO}, nil
}

func newPromotionID() string {
	return uuid.NewString()
}

func promotionToDTO(p *domainpromotions.Promotion) dto.Promotion {
	return dto.Promotion{
		ID:              string(p.ID),
		ProductID:       string(p.ProductID),
		DiscountPercent: p.DiscountPercent,
		StartDate:       p.Start.Format("2006-01-02"),
		EndDate:         p.End.Format("2006-01-02"),
		IsActive:        p.Active,
		CreatedAt:       p.CreatedAt,
	}
}

func recordProposalEvents(ctx context.Context, box outbox.Outbox, encoder outbox.EventEncoder, proposal *domainpromotions.Proposal) error {
	pending := proposal.PendingEvents()
	proposal.ClearEvents()
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{}
	}
	return outbox.RecordDomainEvents(ctx, box, encoder, pending)
}

var _ commands.Handler[ProposePromotionCommand, *ProposePromotionResult] = (*ProposePromotionHandler)(nil)
