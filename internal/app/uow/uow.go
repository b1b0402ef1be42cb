package uow

import (
	"context"

	domaincatalog "staymarket/internal/domain/catalog"
	domaincommissions "staymarket/internal/domain/commissions"
	domainpromotions "staymarket/internal/domain/promotions"
	domainrents "staymarket/internal/domain/rents"
	domainspecial "staymarket/internal/domain/specialprices"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Catalog() domaincatalog.Repository
	Promotions() domainpromotions.Repository
	SpecialPrices() domainspecial.Repository
	Commissions() domaincommissions.Store
	Rents() domainrents.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
