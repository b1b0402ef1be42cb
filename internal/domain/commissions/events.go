package commissions

import (
	"time"

	"staymarket/internal/domain/catalog"
)

// CommissionChanged signals that fee configuration for the listed property
// types can no longer be served from cache.
type CommissionChanged struct {
	CommissionID CommissionID
	TypeIDs      []catalog.PropertyTypeID
	Action       string
	At           time.Time
}

func (e CommissionChanged) EventName() string     { return "commissions.commission_changed" }
func (e CommissionChanged) AggregateID() string   { return string(e.CommissionID) }
func (e CommissionChanged) OccurredAt() time.Time { return e.At }
