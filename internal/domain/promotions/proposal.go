package promotions

import (
	"time"

	"staymarket/internal/domain/shared/events"
	"staymarket/internal/domain/shared/faults"
)

var ErrInvalidProposalState = faults.Conflictf("promotions: invalid proposal transition")

type ProposalState string

const (
	ProposalProposed          ProposalState = "PROPOSED"
	ProposalConflictPresented ProposalState = "CONFLICT_PRESENTED"
	ProposalConfirmed         ProposalState = "CONFIRMED"
	ProposalAborted           ProposalState = "ABORTED"
)

// Proposal drives the two-phase promotion creation: a proposal either
// confirms directly (no overlaps) or surfaces the conflicting set and waits
// for an explicit confirmation that deactivates the overlaps.
type Proposal struct {
	ID          string
	Draft       Draft
	State       ProposalState
	Overlapping []PromotionID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	events.EventRecorder
}

func NewProposal(id string, draft Draft, now time.Time) *Proposal {
	now = now.UTC()
	return &Proposal{
		ID:        id,
		Draft:     draft,
		State:     ProposalProposed,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PresentConflict records the overlapping set; the proposal now waits for
// the caller's confirmation step.
func (p *Proposal) PresentConflict(overlapping []PromotionID, now time.Time) error {
	if p.State != ProposalProposed {
		return ErrInvalidProposalState
	}
	if len(overlapping) == 0 {
		return faults.Validationf("promotions: conflict requires at least one overlapping promotion")
	}
	p.State = ProposalConflictPresented
	p.Overlapping = append([]PromotionID(nil), overlapping...)
	p.UpdatedAt = now.UTC()
	return nil
}

// Confirm finalizes the proposal. A proposal with a presented conflict may
// only confirm once the overlaps are being deactivated in the same
// transaction; a clean proposal confirms directly.
func (p *Proposal) Confirm(now time.Time) error {
	if p.State != ProposalProposed && p.State != ProposalConflictPresented {
		return ErrInvalidProposalState
	}
	p.State = ProposalConfirmed
	p.UpdatedAt = now.UTC()
	p.Record(PromotionActivated{ProposalID: p.ID, ProductID: p.Draft.ProductID, DiscountPercent: p.Draft.DiscountPercent, Start: p.Draft.Start, End: p.Draft.End, Deactivated: p.Overlapping, At: p.UpdatedAt})
	return nil
}

func (p *Proposal) Abort(now time.Time) error {
	if p.State == ProposalConfirmed || p.State == ProposalAborted {
		return ErrInvalidProposalState
	}
	p.State = ProposalAborted
	p.UpdatedAt = now.UTC()
	return nil
}
