package policies

import (
	"context"

	domainrents "staymarket/internal/domain/rents"
)

// SnapshotArchiver stores the frozen pricing snapshot of a confirmed rent
// for audit. Archiving is best-effort: a failing archiver never blocks a
// booking.
type SnapshotArchiver interface {
	Archive(ctx context.Context, rentID domainrents.RentID, snapshot domainrents.PricingSnapshot) (location string, err error)
}
