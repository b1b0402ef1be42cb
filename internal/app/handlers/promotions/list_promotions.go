package promotions

import (
	"context"
	"strings"

	"staymarket/internal/app/dto"
	handlersupport "staymarket/internal/app/handlers/support"
	"staymarket/internal/app/queries"
	"staymarket/internal/app/uow"
	domaincatalog "staymarket/internal/domain/catalog"
	"staymarket/internal/domain/shared/faults"
)

const listPromotionsKey = "promotions.list"

type ListPromotionsQuery struct {
	ProductID string
	// IncludeInactive keeps deactivated rows in the listing for audit views.
	IncludeInactive bool
}

func (q ListPromotionsQuery) Key() string { return listPromotionsKey }

type ListPromotionsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListPromotionsHandler) Handle(ctx context.Context, q ListPromotionsQuery) ([]dto.Promotion, error) {
	if strings.TrimSpace(q.ProductID) == "" {
		return nil, faults.Validationf("promotions: product id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	rows, err := unit.Promotions().ByProduct(execCtx, domaincatalog.ProductID(q.ProductID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.Promotion, 0, len(rows))
	for _, row := range rows {
		if !q.IncludeInactive && !row.Active {
			continue
		}
		out = append(out, promotionToDTO(row))
	}
	return out, nil
}

var _ queries.Handler[ListPromotionsQuery, []dto.Promotion] = (*ListPromotionsHandler)(nil)
