package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domaincatalog "staymarket/internal/domain/catalog"
	domaincommissions "staymarket/internal/domain/commissions"
	domainpromotions "staymarket/internal/domain/promotions"
	domainrents "staymarket/internal/domain/rents"
	domainspecial "staymarket/internal/domain/specialprices"
)

// CatalogRepository is an in-memory implementation for demo and test use.
type CatalogRepository struct {
	mu       sync.RWMutex
	products map[domaincatalog.ProductID]*domaincatalog.Product
	extras   map[domaincatalog.ExtraID]*domaincatalog.Extra
	types    map[domaincatalog.PropertyTypeID]*domaincatalog.PropertyType
}

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		products: make(map[domaincatalog.ProductID]*domaincatalog.Product),
		extras:   make(map[domaincatalog.ExtraID]*domaincatalog.Extra),
		types:    make(map[domaincatalog.PropertyTypeID]*domaincatalog.PropertyType),
	}
}

func (r *CatalogRepository) ProductByID(ctx context.Context, id domaincatalog.ProductID) (*domaincatalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, domaincatalog.ErrProductNotFound
	}
	return product, nil
}

func (r *CatalogRepository) SaveProduct(ctx context.Context, product *domaincatalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *CatalogRepository) ExtraByID(ctx context.Context, id domaincatalog.ExtraID) (*domaincatalog.Extra, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	extra, ok := r.extras[id]
	if !ok {
		return nil, domaincatalog.ErrExtraNotFound
	}
	return extra, nil
}

func (r *CatalogRepository) SaveExtra(ctx context.Context, extra *domaincatalog.Extra) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extras[extra.ID] = extra
	return nil
}

func (r *CatalogRepository) PropertyTypes(ctx context.Context) ([]*domaincatalog.PropertyType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaincatalog.PropertyType, 0, len(r.types))
	for _, pt := range r.types {
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CatalogRepository) SavePropertyType(ctx context.Context, pt *domaincatalog.PropertyType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[pt.ID] = pt
	return nil
}

var _ domaincatalog.Repository = (*CatalogRepository)(nil)

// PromotionRepository keeps promotion rows in memory, deactivated rows included.
type PromotionRepository struct {
	mu    sync.RWMutex
	items map[domainpromotions.PromotionID]*domainpromotions.Promotion
}

func NewPromotionRepository() *PromotionRepository {
	return &PromotionRepository{items: make(map[domainpromotions.PromotionID]*domainpromotions.Promotion)}
}

func (r *PromotionRepository) ByID(ctx context.Context, id domainpromotions.PromotionID) (*domainpromotions.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	promo, ok := r.items[id]
	if !ok {
		return nil, domainpromotions.ErrPromotionNotFound
	}
	clone := *promo
	return &clone, nil
}

func (r *PromotionRepository) ActiveByProduct(ctx context.Context, productID domaincatalog.ProductID, start, end time.Time) ([]*domainpromotions.Promotion, error) {
	return r.activeOverlapping(productID, start, end)
}

func (r *PromotionRepository) ActiveOverlapping(ctx context.Context, productID domaincatalog.ProductID, start, end time.Time) ([]*domainpromotions.Promotion, error) {
	return r.activeOverlapping(productID, start, end)
}

func (r *PromotionRepository) activeOverlapping(productID domaincatalog.ProductID, start, end time.Time) ([]*domainpromotions.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainpromotions.Promotion, 0)
	for _, promo := range r.items {
		if promo.ProductID != productID || !promo.Active {
			continue
		}
		if !promo.OverlapsWindow(start, end) {
			continue
		}
		clone := *promo
		out = append(out, &clone)
	}
	sortPromotions(out)
	return out, nil
}

func (r *PromotionRepository) ByProduct(ctx context.Context, productID domaincatalog.ProductID) ([]*domainpromotions.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainpromotions.Promotion, 0)
	for _, promo := range r.items {
		if promo.ProductID != productID {
			continue
		}
		clone := *promo
		out = append(out, &clone)
	}
	sortPromotions(out)
	return out, nil
}

func (r *PromotionRepository) Save(ctx context.Context, promo *domainpromotions.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *promo
	r.items[promo.ID] = &clone
	return nil
}

func sortPromotions(rows []*domainpromotions.Promotion) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Start.Equal(rows[j].Start) {
			return rows[i].Start.Before(rows[j].Start)
		}
		return rows[i].ID < rows[j].ID
	})
}

var _ domainpromotions.Repository = (*PromotionRepository)(nil)

// SpecialPriceRepository keeps special price rows in memory.
type SpecialPriceRepository struct {
	mu    sync.RWMutex
	items map[domainspecial.SpecialPriceID]*domainspecial.SpecialPrice
}

func NewSpecialPriceRepository() *SpecialPriceRepository {
	return &SpecialPriceRepository{items: make(map[domainspecial.SpecialPriceID]*domainspecial.SpecialPrice)}
}

func (r *SpecialPriceRepository) ByID(ctx context.Context, id domainspecial.SpecialPriceID) (*domainspecial.SpecialPrice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.items[id]
	if !ok {
		return nil, domainspecial.ErrSpecialPriceNotFound
	}
	clone := *row
	return &clone, nil
}

func (r *SpecialPriceRepository) ActiveByProduct(ctx context.Context, productID domaincatalog.ProductID) ([]*domainspecial.SpecialPrice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainspecial.SpecialPrice, 0)
	for _, row := range r.items {
		if row.ProductID != productID || !row.Activate {
			continue
		}
		clone := *row
		out = append(out, &clone)
	}
	sortSpecialPrices(out)
	return out, nil
}

func (r *SpecialPriceRepository) ByProduct(ctx context.Context, productID domaincatalog.ProductID) ([]*domainspecial.SpecialPrice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainspecial.SpecialPrice, 0)
	for _, row := range r.items {
		if row.ProductID != productID {
			continue
		}
		clone := *row
		out = append(out, &clone)
	}
	sortSpecialPrices(out)
	return out, nil
}

func (r *SpecialPriceRepository) Save(ctx context.Context, row *domainspecial.SpecialPrice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *row
	r.items[row.ID] = &clone
	return nil
}

func sortSpecialPrices(rows []*domainspecial.SpecialPrice) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})
}

var _ domainspecial.Repository = (*SpecialPriceRepository)(nil)

// CommissionStore enforces the one-row-per-type invariant under a single lock.
type CommissionStore struct {
	mu       sync.RWMutex
	items    map[domaincommissions.CommissionID]*domaincommissions.Commission
	settings []*domaincommissions.Settings
}

func NewCommissionStore() *CommissionStore {
	return &CommissionStore{items: make(map[domaincommissions.CommissionID]*domaincommissions.Commission)}
}

func (s *CommissionStore) ByID(ctx context.Context, id domaincommissions.CommissionID) (*domaincommissions.Commission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	commission, ok := s.items[id]
	if !ok {
		return nil, domaincommissions.ErrCommissionNotFound
	}
	clone := *commission
	return &clone, nil
}

func (s *CommissionStore) ByType(ctx context.Context, typeID domaincatalog.PropertyTypeID) (*domaincommissions.Commission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, commission := range s.items {
		if commission.TypeID == typeID {
			clone := *commission
			return &clone, nil
		}
	}
	return nil, domaincommissions.ErrCommissionNotFound
}

func (s *CommissionStore) All(ctx context.Context) ([]*domaincommissions.Commission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domaincommissions.Commission, 0, len(s.items))
	for _, commission := range s.items {
		clone := *commission
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeID < out[j].TypeID })
	return out, nil
}

func (s *CommissionStore) Create(ctx context.Context, commission *domaincommissions.Commission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.TypeID == commission.TypeID {
			return domaincommissions.ErrTypeTaken
		}
	}
	clone := *commission
	s.items[commission.ID] = &clone
	return nil
}

func (s *CommissionStore) Update(ctx context.Context, commission *domaincommissions.Commission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[commission.ID]; !ok {
		return domaincommissions.ErrCommissionNotFound
	}
	for _, existing := range s.items {
		if existing.ID != commission.ID && existing.TypeID == commission.TypeID {
			return domaincommissions.ErrTypeTaken
		}
	}
	clone := *commission
	s.items[commission.ID] = &clone
	return nil
}

func (s *CommissionStore) Delete(ctx context.Context, id domaincommissions.CommissionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return domaincommissions.ErrCommissionNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *CommissionStore) LatestActiveSettings(ctx context.Context) (*domaincommissions.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *domaincommissions.Settings
	for _, row := range s.settings {
		if !row.Active {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, domaincommissions.ErrSettingsNotFound
	}
	clone := *latest
	return &clone, nil
}

func (s *CommissionStore) SaveSettings(ctx context.Context, settings *domaincommissions.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *settings
	s.settings = append(s.settings, &clone)
	return nil
}

var _ domaincommissions.Store = (*CommissionStore)(nil)

// RentRepository keeps confirmed rents in memory.
type RentRepository struct {
	mu    sync.RWMutex
	items map[domainrents.RentID]*domainrents.Rent
}

func NewRentRepository() *RentRepository {
	return &RentRepository{items: make(map[domainrents.RentID]*domainrents.Rent)}
}

func (r *RentRepository) ByID(ctx context.Context, id domainrents.RentID) (*domainrents.Rent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rent, ok := r.items[id]
	if !ok {
		return nil, domainrents.ErrRentNotFound
	}
	clone := *rent
	return &clone, nil
}

func (r *RentRepository) Save(ctx context.Context, rent *domainrents.Rent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *rent
	r.items[rent.ID] = &clone
	return nil
}

func (r *RentRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainrents.Rent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainrents.Rent, 0)
	for _, rent := range r.items {
		if rent.GuestID != guestID {
			continue
		}
		clone := *rent
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

var _ domainrents.Repository = (*RentRepository)(nil)
