package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincatalog "staymarket/internal/domain/catalog"
	domainpromotions "staymarket/internal/domain/promotions"
	domainrange "staymarket/internal/domain/shared/daterange"
)

type PromotionRepository struct {
	col *mongo.Collection
}

func NewPromotionRepository(db *mongo.Database) *PromotionRepository {
	return &PromotionRepository{col: db.Collection("promo_promotion")}
}

func ensurePromotionIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("promo_promotion").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "active", Value: 1}, {Key: "start", Value: 1}},
	})
	return err
}

func (r *PromotionRepository) ByID(ctx context.Context, id domainpromotions.PromotionID) (*domainpromotions.Promotion, error) {
	var doc promotionDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainpromotions.ErrPromotionNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *PromotionRepository) ActiveByProduct(ctx context.Context, productID domaincatalog.ProductID, start, end time.Time) ([]*domainpromotions.Promotion, error) {
	return r.findOverlapping(ctx, productID, start, end)
}

func (r *PromotionRepository) ActiveOverlapping(ctx context.Context, productID domaincatalog.ProductID, start, end time.Time) ([]*domainpromotions.Promotion, error) {
	return r.findOverlapping(ctx, productID, start, end)
}

// findOverlapping mirrors Promotion.OverlapsWindow: closed-interval overlap
// on day-truncated bounds.
func (r *PromotionRepository) findOverlapping(ctx context.Context, productID domaincatalog.ProductID, start, end time.Time) ([]*domainpromotions.Promotion, error) {
	startMs := domainrange.Day(start).UnixMilli()
	endMs := domainrange.Day(end).UnixMilli()
	filter := bson.M{
		"product_id": string(productID),
		"active":     true,
		"start":      bson.M{"$lte": endMs},
		"end":        bson.M{"$gte": startMs},
	}
	return r.find(ctx, filter)
}

func (r *PromotionRepository) ByProduct(ctx context.Context, productID domaincatalog.ProductID) ([]*domainpromotions.Promotion, error) {
	return r.find(ctx, bson.M{"product_id": string(productID)})
}

func (r *PromotionRepository) find(ctx context.Context, filter bson.M) ([]*domainpromotions.Promotion, error) {
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainpromotions.Promotion, 0)
	for cursor.Next(ctx) {
		var doc promotionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *PromotionRepository) Save(ctx context.Context, promotion *domainpromotions.Promotion) error {
	doc := newPromotionDocument(promotion)
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

var _ domainpromotions.Repository = (*PromotionRepository)(nil)

type promotionDocument struct {
	ID              string  `bson:"_id"`
	ProductID       string  `bson:"product_id"`
	DiscountPercent float64 `bson:"discount_percent"`
	Start           int64   `bson:"start"`
	End             int64   `bson:"end"`
	Active          bool    `bson:"active"`
	CreatedAt       int64   `bson:"created_at"`
	UpdatedAt       int64   `bson:"updated_at"`
}

func newPromotionDocument(p *domainpromotions.Promotion) promotionDocument {
	return promotionDocument{
		ID:              string(p.ID),
		ProductID:       string(p.ProductID),
		DiscountPercent: p.DiscountPercent,
		Start:           p.Start.UnixMilli(),
		End:             p.End.UnixMilli(),
		Active:          p.Active,
		CreatedAt:       p.CreatedAt.UnixMilli(),
		UpdatedAt:       p.UpdatedAt.UnixMilli(),
	}
}

func (d promotionDocument) toAggregate() *domainpromotions.Promotion {
	return &domainpromotions.Promotion{
		ID:              domainpromotions.PromotionID(d.ID),
		ProductID:       domaincatalog.ProductID(d.ProductID),
		DiscountPercent: d.DiscountPercent,
		Start:           timestampToTime(d.Start),
		End:             timestampToTime(d.End),
		Active:          d.Active,
		CreatedAt:       timestampToTime(d.CreatedAt),
		UpdatedAt:       timestampToTime(d.UpdatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
