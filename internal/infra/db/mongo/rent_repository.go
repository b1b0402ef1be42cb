package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincatalog "staymarket/internal/domain/catalog"
	domainrents "staymarket/internal/domain/rents"
	domainrange "staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type RentRepository struct {
	col *mongo.Collection
}

func NewRentRepository(db *mongo.Database) *RentRepository {
	return &RentRepository{col: db.Collection("agg_rent")}
}

func (r *RentRepository) ByID(ctx context.Context, id domainrents.RentID) (*domainrents.Rent, error) {
	var doc rentDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrents.ErrRentNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *RentRepository) Save(ctx context.Context, rent *domainrents.Rent) error {
	doc := newRentDocument(rent)
	filter := bson.M{"_id": doc.ID, "version": rent.Version}
	doc.Version = rent.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	rent.Version = doc.Version
	return nil
}

func (r *RentRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainrents.Rent, error) {
	cursor, err := r.col.Find(ctx, bson.M{"guest_id": guestID}, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domainrents.Rent, 0)
	for cursor.Next(ctx) {
		var doc rentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

var _ domainrents.Repository = (*RentRepository)(nil)

type rentDocument struct {
	ID        string           `bson:"_id"`
	ProductID string           `bson:"product_id"`
	GuestID   string           `bson:"guest_id"`
	Range     rangeDocument    `bson:"range"`
	State     string           `bson:"state"`
	Snapshot  snapshotDocument `bson:"snapshot"`
	CreatedAt int64            `bson:"created_at"`
	UpdatedAt int64            `bson:"updated_at"`
	Version   int64            `bson:"version"`
}

type rangeDocument struct {
	CheckIn  int64 `bson:"check_in"`
	CheckOut int64 `bson:"check_out"`
}

type snapshotDocument struct {
	SubtotalCents          int64  `bson:"subtotal_cents"`
	ExtrasTotalCents       int64  `bson:"extras_total_cents"`
	ClientCommissionCents  int64  `bson:"client_commission_cents"`
	HostCommissionCents    int64  `bson:"host_commission_cents"`
	PlatformAmountCents    int64  `bson:"platform_amount_cents"`
	HostAmountCents        int64  `bson:"host_amount_cents"`
	TotalAmountCents       int64  `bson:"total_amount_cents"`
	Nights                 int    `bson:"nights"`
	BasePricePerNightCents int64  `bson:"base_price_per_night_cents"`
	Currency               string `bson:"currency"`
	CalculatedAt           int64  `bson:"calculated_at"`
}

func newRentDocument(rent *domainrents.Rent) rentDocument {
	s := rent.Snapshot
	return rentDocument{
		ID:        string(rent.ID),
		ProductID: string(rent.ProductID),
		GuestID:   rent.GuestID,
		Range:     rangeDocument{CheckIn: rent.Range.CheckIn.UnixMilli(), CheckOut: rent.Range.CheckOut.UnixMilli()},
		State:     string(rent.State),
		Snapshot: snapshotDocument{
			SubtotalCents:          s.Subtotal.Amount,
			ExtrasTotalCents:       s.ExtrasTotal.Amount,
			ClientCommissionCents:  s.ClientCommission.Amount,
			HostCommissionCents:    s.HostCommission.Amount,
			PlatformAmountCents:    s.PlatformAmount.Amount,
			HostAmountCents:        s.HostAmount.Amount,
			TotalAmountCents:       s.TotalAmount.Amount,
			Nights:                 s.Nights,
			BasePricePerNightCents: s.BasePricePerNight.Amount,
			Currency:               s.TotalAmount.Currency,
			CalculatedAt:           s.CalculatedAt.UnixMilli(),
		},
		CreatedAt: rent.CreatedAt.UnixMilli(),
		UpdatedAt: rent.UpdatedAt.UnixMilli(),
		Version:   rent.Version,
	}
}

func (d rentDocument) toAggregate() *domainrents.Rent {
	cur := d.Snapshot.Currency
	return &domainrents.Rent{
		ID:        domainrents.RentID(d.ID),
		ProductID: domaincatalog.ProductID(d.ProductID),
		GuestID:   d.GuestID,
		Range:     domainrange.DateRange{CheckIn: timestampToTime(d.Range.CheckIn), CheckOut: timestampToTime(d.Range.CheckOut)},
		State:     domainrents.RentState(d.State),
		Snapshot: domainrents.PricingSnapshot{
			Subtotal:          money.Money{Amount: d.Snapshot.SubtotalCents, Currency: cur},
			ExtrasTotal:       money.Money{Amount: d.Snapshot.ExtrasTotalCents, Currency: cur},
			ClientCommission:  money.Money{Amount: d.Snapshot.ClientCommissionCents, Currency: cur},
			HostCommission:    money.Money{Amount: d.Snapshot.HostCommissionCents, Currency: cur},
			PlatformAmount:    money.Money{Amount: d.Snapshot.PlatformAmountCents, Currency: cur},
			HostAmount:        money.Money{Amount: d.Snapshot.HostAmountCents, Currency: cur},
			TotalAmount:       money.Money{Amount: d.Snapshot.TotalAmountCents, Currency: cur},
			Nights:            d.Snapshot.Nights,
			BasePricePerNight: money.Money{Amount: d.Snapshot.BasePricePerNightCents, Currency: cur},
			CalculatedAt:      timestampToTime(d.Snapshot.CalculatedAt),
		},
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}
