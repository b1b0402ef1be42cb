package catalog

import (
	"context"

	"staymarket/internal/domain/shared/faults"
	"staymarket/internal/domain/shared/money"
)

var (
	ErrProductNotFound      = faults.NotFoundf("catalog: product not found")
	ErrExtraNotFound        = faults.NotFoundf("catalog: extra not found")
	ErrPropertyTypeNotFound = faults.NotFoundf("catalog: property type not found")
)

type ProductID string

type PropertyTypeID string

type ExtraID string

// Product carries the pricing-relevant slice of a listing. It is treated as
// immutable for the duration of a single quote calculation.
type Product struct {
	ID             ProductID
	Title          string
	BasePrice      money.Money
	PropertyTypeID PropertyTypeID
	OwnerID        string
}

// PropertyType is the commission join key.
type PropertyType struct {
	ID          PropertyTypeID
	Name        string
	IsHotelType bool
}

// Extra is a bookable add-on priced per unit.
type Extra struct {
	ID    ExtraID
	Name  string
	Price money.Money
}

type Repository interface {
	ProductByID(ctx context.Context, id ProductID) (*Product, error)
	SaveProduct(ctx context.Context, product *Product) error
	ExtraByID(ctx context.Context, id ExtraID) (*Extra, error)
	SaveExtra(ctx context.Context, extra *Extra) error
	PropertyTypes(ctx context.Context) ([]*PropertyType, error)
	SavePropertyType(ctx context.Context, pt *PropertyType) error
}
