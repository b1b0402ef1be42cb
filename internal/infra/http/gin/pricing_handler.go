package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/dto"
	PricingApp "staymarket/internal/app/handlers/pricing"
	"staymarket/internal/app/queries"
)

type PricingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type extraSelectionRequest struct {
	ExtraID  string `json:"extra_id"`
	Quantity int    `json:"quantity"`
}

type quoteRequest struct {
	ProductID string                  `json:"product_id"`
	CheckIn   string                  `json:"check_in"`
	CheckOut  string                  `json:"check_out"`
	Extras    []extraSelectionRequest `json:"extras"`
}

func (h PricingHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_in date"})
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_out date"})
		return
	}
	query := PricingApp.QuoteBookingQuery{
		ProductID: req.ProductID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Extras:    toExtraSelections(req.Extras),
	}
	result, err := queries.Ask[PricingApp.QuoteBookingQuery, dto.BookingQuote](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type confirmBookingRequest struct {
	ProductID string                  `json:"product_id"`
	GuestID   string                  `json:"guest_id"`
	CheckIn   string                  `json:"check_in"`
	CheckOut  string                  `json:"check_out"`
	Extras    []extraSelectionRequest `json:"extras"`
}

func (h PricingHandler) Confirm(c *gin.Context) {
	var req confirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_in date"})
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid check_out date"})
		return
	}
	cmd := PricingApp.ConfirmBookingCommand{
		CommandID: generateCommandID(),
		ProductID: req.ProductID,
		GuestID:   req.GuestID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Extras:    toExtraSelections(req.Extras),
	}
	result, err := commands.Dispatch[PricingApp.ConfirmBookingCommand, *PricingApp.ConfirmBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func toExtraSelections(in []extraSelectionRequest) []PricingApp.ExtraSelection {
	out := make([]PricingApp.ExtraSelection, 0, len(in))
	for _, sel := range in {
		out = append(out, PricingApp.ExtraSelection{ExtraID: sel.ExtraID, Quantity: sel.Quantity})
	}
	return out
}

func generateCommandID() string {
	return uuid.NewString()
}
