package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/dto"
	PromotionApp "staymarket/internal/app/handlers/promotions"
	SpecialPriceApp "staymarket/internal/app/handlers/specialprices"
	"staymarket/internal/app/queries"
)

type PromotionHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h PromotionHandler) List(c *gin.Context) {
	query := PromotionApp.ListPromotionsQuery{
		ProductID:       c.Param("id"),
		IncludeInactive: c.Query("include_inactive") == "true",
	}
	result, err := queries.Ask[PromotionApp.ListPromotionsQuery, []dto.Promotion](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PromotionHandler) ListSpecialPrices(c *gin.Context) {
	query := SpecialPriceApp.ListSpecialPricesQuery{
		ProductID:       c.Param("id"),
		IncludeInactive: c.Query("include_inactive") == "true",
	}
	result, err := queries.Ask[SpecialPriceApp.ListSpecialPricesQuery, []dto.SpecialPrice](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type proposePromotionRequest struct {
	DiscountPercent float64 `json:"discount_percent"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
}

func (h PromotionHandler) Propose(c *gin.Context) {
	var req proposePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}
	cmd := PromotionApp.ProposePromotionCommand{
		CommandID:       generateCommandID(),
		ProductID:       c.Param("id"),
		DiscountPercent: req.DiscountPercent,
		StartDate:       start,
		EndDate:         end,
	}
	result, err := commands.Dispatch[PromotionApp.ProposePromotionCommand, *PromotionApp.ProposePromotionResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Conflict {
		c.JSON(http.StatusConflict, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type confirmOverlapRequest struct {
	DiscountPercent float64  `json:"discount_percent"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	OverlappingIDs  []string `json:"overlapping_ids"`
}

func (h PromotionHandler) ConfirmOverlap(c *gin.Context) {
	var req confirmOverlapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}
	cmd := PromotionApp.ConfirmOverlapCommand{
		CommandID:       generateCommandID(),
		ProductID:       c.Param("id"),
		DiscountPercent: req.DiscountPercent,
		StartDate:       start,
		EndDate:         end,
		OverlappingIDs:  req.OverlappingIDs,
	}
	result, err := commands.Dispatch[PromotionApp.ConfirmOverlapCommand, *PromotionApp.ConfirmOverlapResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
