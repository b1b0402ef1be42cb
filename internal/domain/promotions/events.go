package promotions

import (
	"time"

	"staymarket/internal/domain/catalog"
)

type PromotionActivated struct {
	ProposalID      string
	ProductID       catalog.ProductID
	DiscountPercent float64
	Start           time.Time
	End             time.Time
	Deactivated     []PromotionID
	At              time.Time
}

func (e PromotionActivated) EventName() string     { return "promotions.promotion_activated" }
func (e PromotionActivated) AggregateID() string   { return string(e.ProductID) }
func (e PromotionActivated) OccurredAt() time.Time { return e.At }
