package memory

import (
	"context"
	"errors"

	"staymarket/internal/app/uow"
	domaincatalog "staymarket/internal/domain/catalog"
	domaincommissions "staymarket/internal/domain/commissions"
	domainpromotions "staymarket/internal/domain/promotions"
	domainrents "staymarket/internal/domain/rents"
	domainspecial "staymarket/internal/domain/specialprices"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	CatalogRepo      domaincatalog.Repository
	PromotionRepo    domainpromotions.Repository
	SpecialPriceRepo domainspecial.Repository
	CommissionStore  domaincommissions.Store
	RentRepo         domainrents.Repository
}

// Begin starts a lightweight transaction boundary. No isolation is provided
// but the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.CatalogRepo == nil || f.PromotionRepo == nil || f.SpecialPriceRepo == nil || f.CommissionStore == nil || f.RentRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		catalog:       f.CatalogRepo,
		promotions:    f.PromotionRepo,
		specialPrices: f.SpecialPriceRepo,
		commissions:   f.CommissionStore,
		rents:         f.RentRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	catalog       domaincatalog.Repository
	promotions    domainpromotions.Repository
	specialPrices domainspecial.Repository
	commissions   domaincommissions.Store
	rents         domainrents.Repository
}

func (u *Unit) Catalog() domaincatalog.Repository {
	return u.catalog
}

func (u *Unit) Promotions() domainpromotions.Repository {
	return u.promotions
}

func (u *Unit) SpecialPrices() domainspecial.Repository {
	return u.specialPrices
}

func (u *Unit) Commissions() domaincommissions.Store {
	return u.commissions
}

func (u *Unit) Rents() domainrents.Repository {
	return u.rents
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}
