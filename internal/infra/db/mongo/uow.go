package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staymarket/internal/app/uow"
	domaincatalog "staymarket/internal/domain/catalog"
	domaincommissions "staymarket/internal/domain/commissions"
	domainpromotions "staymarket/internal/domain/promotions"
	domainrents "staymarket/internal/domain/rents"
	domainspecial "staymarket/internal/domain/specialprices"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	CatalogRepo      domaincatalog.Repository
	PromotionRepo    domainpromotions.Repository
	SpecialPriceRepo domainspecial.Repository
	CommissionStore  domaincommissions.Store
	RentRepo         domainrents.Repository
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:            f.DB,
		session:       session,
		catalog:       f.CatalogRepo,
		promotions:    f.PromotionRepo,
		specialPrices: f.SpecialPriceRepo,
		commissions:   f.CommissionStore,
		rents:         f.RentRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

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
	defer u.session.EndSession(ctx)
	if err := u.session.CommitTransaction(ctx); err != nil {
		return err
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
