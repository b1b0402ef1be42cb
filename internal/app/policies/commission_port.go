package policies

import (
	"context"

	domaincatalog "staymarket/internal/domain/catalog"
	domaincommissions "staymarket/internal/domain/commissions"
)

// CommissionPort resolves the fee configuration for a property type.
// Implementations may cache; callers treat a failure as "no commission"
// so guest-facing quotes never hard-fail on configuration gaps.
type CommissionPort interface {
	Resolve(ctx context.Context, typeID domaincatalog.PropertyTypeID) (domaincommissions.Rates, error)
}
