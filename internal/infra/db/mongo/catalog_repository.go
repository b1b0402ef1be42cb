package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincatalog "staymarket/internal/domain/catalog"
	"staymarket/internal/domain/shared/money"
)

type CatalogRepository struct {
	products *mongo.Collection
	extras   *mongo.Collection
	types    *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		products: db.Collection("cat_product"),
		extras:   db.Collection("cat_extra"),
		types:    db.Collection("cat_property_type"),
	}
}

func (r *CatalogRepository) ProductByID(ctx context.Context, id domaincatalog.ProductID) (*domaincatalog.Product, error) {
	var doc productDocument
	if err := r.products.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincatalog.ErrProductNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CatalogRepository) SaveProduct(ctx context.Context, product *domaincatalog.Product) error {
	doc := newProductDocument(product)
	opts := options.Replace().SetUpsert(true)
	_, err := r.products.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *CatalogRepository) ExtraByID(ctx context.Context, id domaincatalog.ExtraID) (*domaincatalog.Extra, error) {
	var doc extraDocument
	if err := r.extras.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincatalog.ErrExtraNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CatalogRepository) SaveExtra(ctx context.Context, extra *domaincatalog.Extra) error {
	doc := extraDocument{ID: string(extra.ID), Name: extra.Name, PriceCents: extra.Price.Amount, Currency: extra.Price.Currency}
	opts := options.Replace().SetUpsert(true)
	_, err := r.extras.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *CatalogRepository) PropertyTypes(ctx context.Context) ([]*domaincatalog.PropertyType, error) {
	cursor, err := r.types.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domaincatalog.PropertyType, 0)
	for cursor.Next(ctx) {
		var doc propertyTypeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &domaincatalog.PropertyType{ID: domaincatalog.PropertyTypeID(doc.ID), Name: doc.Name, IsHotelType: doc.IsHotelType})
	}
	return out, cursor.Err()
}

func (r *CatalogRepository) SavePropertyType(ctx context.Context, pt *domaincatalog.PropertyType) error {
	doc := propertyTypeDocument{ID: string(pt.ID), Name: pt.Name, IsHotelType: pt.IsHotelType}
	opts := options.Replace().SetUpsert(true)
	_, err := r.types.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

var _ domaincatalog.Repository = (*CatalogRepository)(nil)

type productDocument struct {
	ID             string `bson:"_id"`
	Title          string `bson:"title"`
	BasePriceCents int64  `bson:"base_price_cents"`
	Currency       string `bson:"currency"`
	PropertyTypeID string `bson:"property_type_id"`
	OwnerID        string `bson:"owner_id"`
}

func newProductDocument(p *domaincatalog.Product) productDocument {
	return productDocument{
		ID:             string(p.ID),
		Title:          p.Title,
		BasePriceCents: p.BasePrice.Amount,
		Currency:       p.BasePrice.Currency,
		PropertyTypeID: string(p.PropertyTypeID),
		OwnerID:        p.OwnerID,
	}
}

func (d productDocument) toAggregate() *domaincatalog.Product {
	return &domaincatalog.Product{
		ID:             domaincatalog.ProductID(d.ID),
		Title:          d.Title,
		BasePrice:      money.Money{Amount: d.BasePriceCents, Currency: d.Currency},
		PropertyTypeID: domaincatalog.PropertyTypeID(d.PropertyTypeID),
		OwnerID:        d.OwnerID,
	}
}

type extraDocument struct {
	ID         string `bson:"_id"`
	Name       string `bson:"name"`
	PriceCents int64  `bson:"price_cents"`
	Currency   string `bson:"currency"`
}

func (d extraDocument) toAggregate() *domaincatalog.Extra {
	return &domaincatalog.Extra{
		ID:    domaincatalog.ExtraID(d.ID),
		Name:  d.Name,
		Price: money.Money{Amount: d.PriceCents, Currency: d.Currency},
	}
}

type propertyTypeDocument struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	IsHotelType bool   `bson:"is_hotel_type"`
}
