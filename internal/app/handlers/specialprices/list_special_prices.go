package specialprices

import (
	"context"
	"strings"

	"staymarket/internal/app/dto"
	handlersupport "staymarket/internal/app/handlers/support"
	"staymarket/internal/app/queries"
	"staymarket/internal/app/uow"
	domaincatalog "staymarket/internal/domain/catalog"
	"staymarket/internal/domain/shared/faults"
	domainspecial "staymarket/internal/domain/specialprices"
)

const listSpecialPricesKey = "specialprices.list"

type ListSpecialPricesQuery struct {
	ProductID       string
	IncludeInactive bool
}

func (q ListSpecialPricesQuery) Key() string { return listSpecialPricesKey }

type ListSpecialPricesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListSpecialPricesHandler) Handle(ctx context.Context, q ListSpecialPricesQuery) ([]dto.SpecialPrice, error) {
	if strings.TrimSpace(q.ProductID) == "" {
		return nil, faults.Validationf("specialprices: product id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	rows, err := unit.SpecialPrices().ByProduct(execCtx, domaincatalog.ProductID(q.ProductID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.SpecialPrice, 0, len(rows))
	for _, row := range rows {
		if !q.IncludeInactive && !row.Activate {
			continue
		}
		out = append(out, specialPriceToDTO(row))
	}
	return out, nil
}

func specialPriceToDTO(row *domainspecial.SpecialPrice) dto.SpecialPrice {
	weekdays := make([]string, 0, len(row.Weekdays))
	for _, wd := range row.Weekdays {
		weekdays = append(weekdays, wd.String())
	}
	out := dto.SpecialPrice{
		ID:         string(row.ID),
		ProductID:  string(row.ProductID),
		PriceCents: row.Price.Amount,
		PriceMGA:   row.PriceMGA,
		Weekdays:   weekdays,
		IsActive:   row.Activate,
		CreatedAt:  row.CreatedAt,
	}
	if row.Start != nil {
		out.StartDate = row.Start.Format("2006-01-02")
	}
	if row.End != nil {
		out.EndDate = row.End.Format("2006-01-02")
	}
	return out
}

var _ queries.Handler[ListSpecialPricesQuery, []dto.SpecialPrice] = (*ListSpecialPricesHandler)(nil)
