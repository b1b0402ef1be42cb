package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincatalog "staymarket/internal/domain/catalog"
	"staymarket/internal/domain/shared/money"
	domainspecial "staymarket/internal/domain/specialprices"
)

type SpecialPriceRepository struct {
	col *mongo.Collection
}

func NewSpecialPriceRepository(db *mongo.Database) *SpecialPriceRepository {
	return &SpecialPriceRepository{col: db.Collection("promo_special_price")}
}

func ensureSpecialPriceIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("promo_special_price").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "activate", Value: 1}},
	})
	return err
}

func (r *SpecialPriceRepository) ByID(ctx context.Context, id domainspecial.SpecialPriceID) (*domainspecial.SpecialPrice, error) {
	var doc specialPriceDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainspecial.ErrSpecialPriceNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *SpecialPriceRepository) ActiveByProduct(ctx context.Context, productID domaincatalog.ProductID) ([]*domainspecial.SpecialPrice, error) {
	return r.find(ctx, bson.M{"product_id": string(productID), "activate": true})
}

func (r *SpecialPriceRepository) ByProduct(ctx context.Context, productID domaincatalog.ProductID) ([]*domainspecial.SpecialPrice, error) {
	return r.find(ctx, bson.M{"product_id": string(productID)})
}

func (r *SpecialPriceRepository) find(ctx context.Context, filter bson.M) ([]*domainspecial.SpecialPrice, error) {
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainspecial.SpecialPrice, 0)
	for cursor.Next(ctx) {
		var doc specialPriceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *SpecialPriceRepository) Save(ctx context.Context, row *domainspecial.SpecialPrice) error {
	doc := newSpecialPriceDocument(row)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

var _ domainspecial.Repository = (*SpecialPriceRepository)(nil)

type specialPriceDocument struct {
	ID         string `bson:"_id"`
	ProductID  string `bson:"product_id"`
	PriceCents int64  `bson:"price_cents"`
	Currency   string `bson:"currency"`
	PriceMGA   int64  `bson:"price_mga"`
	Weekdays   []int  `bson:"weekdays"`
	Start      *int64 `bson:"start,omitempty"`
	End        *int64 `bson:"end,omitempty"`
	Activate   bool   `bson:"activate"`
	CreatedAt  int64  `bson:"created_at"`
}

func newSpecialPriceDocument(s *domainspecial.SpecialPrice) specialPriceDocument {
	weekdays := make([]int, 0, len(s.Weekdays))
	for _, wd := range s.Weekdays {
		weekdays = append(weekdays, int(wd))
	}
	doc := specialPriceDocument{
		ID:         string(s.ID),
		ProductID:  string(s.ProductID),
		PriceCents: s.Price.Amount,
		Currency:   s.Price.Currency,
		PriceMGA:   s.PriceMGA,
		Weekdays:   weekdays,
		Activate:   s.Activate,
		CreatedAt:  s.CreatedAt.UnixMilli(),
	}
	if s.Start != nil {
		ms := s.Start.UnixMilli()
		doc.Start = &ms
	}
	if s.End != nil {
		ms := s.End.UnixMilli()
		doc.End = &ms
	}
	return doc
}

func (d specialPriceDocument) toAggregate() *domainspecial.SpecialPrice {
	weekdays := make([]time.Weekday, 0, len(d.Weekdays))
	for _, wd := range d.Weekdays {
		weekdays = append(weekdays, time.Weekday(wd))
	}
	row := &domainspecial.SpecialPrice{
		ID:        domainspecial.SpecialPriceID(d.ID),
		ProductID: domaincatalog.ProductID(d.ProductID),
		Price:     money.Money{Amount: d.PriceCents, Currency: d.Currency},
		PriceMGA:  d.PriceMGA,
		Weekdays:  weekdays,
		Activate:  d.Activate,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
	if d.Start != nil {
		t := timestampToTime(*d.Start)
		row.Start = &t
	}
	if d.End != nil {
		t := timestampToTime(*d.End)
		row.End = &t
	}
	return row
}
