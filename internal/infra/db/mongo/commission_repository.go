package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincatalog "staymarket/internal/domain/catalog"
	domaincommissions "staymarket/internal/domain/commissions"
	"staymarket/internal/domain/shared/money"
)

// CommissionStore persists commission rows with a unique index on type_id,
// turning concurrent create races into ErrTypeTaken.
type CommissionStore struct {
	commissions *mongo.Collection
	settings    *mongo.Collection
}

func NewCommissionStore(db *mongo.Database) *CommissionStore {
	return &CommissionStore{
		commissions: db.Collection("fee_commission"),
		settings:    db.Collection("fee_commission_settings"),
	}
}

func ensureCommissionIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("fee_commission").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "type_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection("fee_commission_settings").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "active", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (s *CommissionStore) ByID(ctx context.Context, id domaincommissions.CommissionID) (*domaincommissions.Commission, error) {
	var doc commissionDocument
	if err := s.commissions.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincommissions.ErrCommissionNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (s *CommissionStore) ByType(ctx context.Context, typeID domaincatalog.PropertyTypeID) (*domaincommissions.Commission, error) {
	var doc commissionDocument
	if err := s.commissions.FindOne(ctx, bson.M{"type_id": string(typeID)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincommissions.ErrCommissionNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (s *CommissionStore) All(ctx context.Context) ([]*domaincommissions.Commission, error) {
	cursor, err := s.commissions.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"type_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := make([]*domaincommissions.Commission, 0)
	for cursor.Next(ctx) {
		var doc commissionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (s *CommissionStore) Create(ctx context.Context, commission *domaincommissions.Commission) error {
	doc := newCommissionDocument(commission)
	if _, err := s.commissions.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domaincommissions.ErrTypeTaken
		}
		return err
	}
	return nil
}

func (s *CommissionStore) Update(ctx context.Context, commission *domaincommissions.Commission) error {
	doc := newCommissionDocument(commission)
	res, err := s.commissions.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domaincommissions.ErrTypeTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domaincommissions.ErrCommissionNotFound
	}
	return nil
}

func (s *CommissionStore) Delete(ctx context.Context, id domaincommissions.CommissionID) error {
	res, err := s.commissions.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domaincommissions.ErrCommissionNotFound
	}
	return nil
}

func (s *CommissionStore) LatestActiveSettings(ctx context.Context) (*domaincommissions.Settings, error) {
	opts := options.FindOne().SetSort(bson.M{"created_at": -1})
	var doc settingsDocument
	if err := s.settings.FindOne(ctx, bson.M{"active": true}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincommissions.ErrSettingsNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (s *CommissionStore) SaveSettings(ctx context.Context, settings *domaincommissions.Settings) error {
	doc := newSettingsDocument(settings)
	opts := options.Replace().SetUpsert(true)
	_, err := s.settings.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

var _ domaincommissions.Store = (*CommissionStore)(nil)

type commissionDocument struct {
	ID               string  `bson:"_id"`
	TypeID           string  `bson:"type_id"`
	HostRate         float64 `bson:"host_rate"`
	HostFixedCents   int64   `bson:"host_fixed_cents"`
	ClientRate       float64 `bson:"client_rate"`
	ClientFixedCents int64   `bson:"client_fixed_cents"`
	Active           bool    `bson:"active"`
	CreatedAt        int64   `bson:"created_at"`
	UpdatedAt        int64   `bson:"updated_at"`
}

func newCommissionDocument(c *domaincommissions.Commission) commissionDocument {
	return commissionDocument{
		ID:               string(c.ID),
		TypeID:           string(c.TypeID),
		HostRate:         c.Rates.HostRate,
		HostFixedCents:   c.Rates.HostFixed.Amount,
		ClientRate:       c.Rates.ClientRate,
		ClientFixedCents: c.Rates.ClientFixed.Amount,
		Active:           c.Active,
		CreatedAt:        c.CreatedAt.UnixMilli(),
		UpdatedAt:        c.UpdatedAt.UnixMilli(),
	}
}

func (d commissionDocument) toAggregate() *domaincommissions.Commission {
	return &domaincommissions.Commission{
		ID:     domaincommissions.CommissionID(d.ID),
		TypeID: domaincatalog.PropertyTypeID(d.TypeID),
		Rates: domaincommissions.Rates{
			HostRate:    d.HostRate,
			HostFixed:   money.Cents(d.HostFixedCents),
			ClientRate:  d.ClientRate,
			ClientFixed: money.Cents(d.ClientFixedCents),
		},
		Active:    d.Active,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}

type settingsDocument struct {
	ID               string  `bson:"_id"`
	HostRate         float64 `bson:"host_rate"`
	HostFixedCents   int64   `bson:"host_fixed_cents"`
	ClientRate       float64 `bson:"client_rate"`
	ClientFixedCents int64   `bson:"client_fixed_cents"`
	Active           bool    `bson:"active"`
	CreatedAt        int64   `bson:"created_at"`
}

func newSettingsDocument(s *domaincommissions.Settings) settingsDocument {
	return settingsDocument{
		ID:               s.ID,
		HostRate:         s.Rates.HostRate,
		HostFixedCents:   s.Rates.HostFixed.Amount,
		ClientRate:       s.Rates.ClientRate,
		ClientFixedCents: s.Rates.ClientFixed.Amount,
		Active:           s.Active,
		CreatedAt:        s.CreatedAt.UnixMilli(),
	}
}

func (d settingsDocument) toAggregate() *domaincommissions.Settings {
	return &domaincommissions.Settings{
		ID: d.ID,
		Rates: domaincommissions.Rates{
			HostRate:    d.HostRate,
			HostFixed:   money.Cents(d.HostFixedCents),
			ClientRate:  d.ClientRate,
			ClientFixed: money.Cents(d.ClientFixedCents),
		},
		Active:    d.Active,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}
