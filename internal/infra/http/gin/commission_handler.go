package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staymarket/internal/app/commands"
	"staymarket/internal/app/dto"
	CommissionApp "staymarket/internal/app/handlers/commissions"
	"staymarket/internal/app/queries"
)

type CommissionHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type commissionRatesRequest struct {
	HostRate         float64 `json:"host_commission_rate"`
	HostFixedCents   int64   `json:"host_commission_fixed_cents"`
	ClientRate       float64 `json:"client_commission_rate"`
	ClientFixedCents int64   `json:"client_commission_fixed_cents"`
}

func (r commissionRatesRequest) toInput() CommissionApp.RatesInput {
	return CommissionApp.RatesInput{
		HostRate:         r.HostRate,
		HostFixedCents:   r.HostFixedCents,
		ClientRate:       r.ClientRate,
		ClientFixedCents: r.ClientFixedCents,
	}
}

type createCommissionRequest struct {
	TypeID string `json:"type_id"`
	commissionRatesRequest
}

func (h CommissionHandler) Create(c *gin.Context) {
	var req createCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := CommissionApp.CreateCommissionCommand{TypeID: req.TypeID, Rates: req.toInput()}
	result, err := commands.Dispatch[CommissionApp.CreateCommissionCommand, *dto.Commission](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type updateCommissionRequest struct {
	TypeID string `json:"type_id"`
	Active bool   `json:"is_active"`
	commissionRatesRequest
}

func (h CommissionHandler) Update(c *gin.Context) {
	var req updateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := CommissionApp.UpdateCommissionCommand{
		CommissionID: c.Param("id"),
		TypeID:       req.TypeID,
		Rates:        req.toInput(),
		Active:       req.Active,
	}
	result, err := commands.Dispatch[CommissionApp.UpdateCommissionCommand, *dto.Commission](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CommissionHandler) Delete(c *gin.Context) {
	cmd := CommissionApp.DeleteCommissionCommand{CommissionID: c.Param("id")}
	if _, err := commands.Dispatch[CommissionApp.DeleteCommissionCommand, struct{}](c.Request.Context(), h.Commands, cmd); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h CommissionHandler) Toggle(c *gin.Context) {
	cmd := CommissionApp.ToggleCommissionCommand{CommissionID: c.Param("id")}
	result, err := commands.Dispatch[CommissionApp.ToggleCommissionCommand, *dto.Commission](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CommissionHandler) List(c *gin.Context) {
	result, err := queries.Ask[CommissionApp.ListCommissionsQuery, []dto.Commission](c.Request.Context(), h.Queries, CommissionApp.ListCommissionsQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CommissionHandler) GetByType(c *gin.Context) {
	query := CommissionApp.GetByTypeQuery{TypeID: c.Param("typeId")}
	result, err := queries.Ask[CommissionApp.GetByTypeQuery, *dto.Commission](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CommissionHandler) MissingTypes(c *gin.Context) {
	result, err := queries.Ask[CommissionApp.MissingTypesQuery, []dto.PropertyType](c.Request.Context(), h.Queries, CommissionApp.MissingTypesQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CommissionHandler) GetSettings(c *gin.Context) {
	result, err := queries.Ask[CommissionApp.CurrentSettingsQuery, *dto.CommissionSettings](c.Request.Context(), h.Queries, CommissionApp.CurrentSettingsQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type upsertSettingsRequest struct {
	Active bool `json:"is_active"`
	commissionRatesRequest
}

func (h CommissionHandler) UpsertSettings(c *gin.Context) {
	var req upsertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := CommissionApp.UpsertSettingsCommand{Rates: req.toInput(), Active: req.Active}
	result, err := commands.Dispatch[CommissionApp.UpsertSettingsCommand, *dto.CommissionSettings](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
